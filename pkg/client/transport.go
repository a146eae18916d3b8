package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// maxAuthRetries is the replay budget for authorization failures. A request
// that still gets 401 after one refresh-and-replay is propagated as-is,
// which keeps an invalid refresh token from causing a refresh loop.
const maxAuthRetries = 1

// Transport is the single chokepoint for outbound API calls. It implements
// http.RoundTripper and, per request:
//
//   - attaches the stored access token as a bearer credential (no mutation
//     when no token is stored);
//   - on a 401 with retry budget left, exchanges the stored refresh token
//     for a new access token and replays the original request exactly once
//     with the new token;
//   - on refresh failure (or when no refresh token is stored on a repeat
//     401) clears both tokens and invokes OnAuthFailure so the host can
//     redirect to the login entry point;
//   - classifies every terminal failure into a user-facing notification
//     delivered through Notifier.
//
// The retry budget is an explicit loop counter local to each RoundTrip call;
// the caller's request object is never mutated.
type Transport struct {
	// Base performs the actual round trips. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Store holds the credential pair.
	Store CredentialStore
	// RefreshURL is the absolute URL of the token refresh endpoint.
	RefreshURL string
	// Notifier receives one notification per terminal failure. Optional.
	Notifier Notifier
	// OnAuthFailure runs after an unrecoverable authorization failure, once
	// both tokens have been cleared. Optional.
	OnAuthFailure func()
	// Log is used for refresh diagnostics. The zero value discards output.
	Log zerolog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		r, err := t.prepare(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.base().RoundTrip(r)
		if err != nil {
			t.notifyErr(err)
			return nil, err
		}

		if resp.StatusCode != http.StatusUnauthorized {
			if resp.StatusCode >= 400 {
				t.notifyResponse(resp)
			}
			return resp, nil
		}

		if attempt >= maxAuthRetries {
			// Second 401 on the replayed request: budget exhausted.
			t.notifyResponse(resp)
			return resp, nil
		}

		refreshToken := t.Store.RefreshToken()
		if refreshToken == "" {
			// Nothing to refresh with; the original failure stands, body
			// intact, so the caller still sees the backend detail.
			t.notifyResponse(resp)
			return resp, nil
		}

		drain(resp)

		if err := t.refresh(req.Context(), refreshToken); err != nil {
			t.Log.Debug().Err(err).Msg("token refresh failed")
			_ = t.Store.Clear()
			if t.OnAuthFailure != nil {
				t.OnAuthFailure()
			}
			return nil, fmt.Errorf("token refresh: %w", err)
		}
		// Loop: replay the original request with the new access token.
	}
}

// prepare builds the request for one attempt: a clone with the current
// bearer token attached and, on replays, a fresh body from GetBody.
func (t *Transport) prepare(req *http.Request, attempt int) (*http.Request, error) {
	r := req.Clone(req.Context())
	if attempt > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		r.Body = body
	}
	if token := t.Store.AccessToken(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r, nil
}

// refresh exchanges the refresh token for a new token pair and persists it.
func (t *Transport) refresh(ctx context.Context, refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp)}
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if tokens.AccessToken == "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: "empty access token"}
	}

	if tokens.RefreshToken != "" {
		return t.Store.SetPair(tokens.AccessToken, tokens.RefreshToken)
	}
	return t.Store.SetAccess(tokens.AccessToken)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) notifyErr(err error) {
	if t.Notifier == nil {
		return
	}
	category, msg := Classify(err)
	t.Notifier.Notify(category, msg)
}

// notifyResponse classifies a terminal non-2xx response. The body is read to
// extract the backend detail message and restored so the caller can still
// consume it.
func (t *Transport) notifyResponse(resp *http.Response) {
	if t.Notifier == nil {
		return
	}
	category, msg := Classify(&APIError{StatusCode: resp.StatusCode, Detail: peekDetail(resp)})
	t.Notifier.Notify(category, msg)
}

// peekDetail reads the {"error": "..."} envelope without consuming the body.
func peekDetail(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return detailFromBody(raw)
}

// readDetail consumes the body; for responses the caller will discard.
func readDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	return detailFromBody(raw)
}

func detailFromBody(raw []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil {
		return ""
	}
	return envelope.Error
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
