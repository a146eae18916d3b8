package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the setlist API. All authenticated traffic passes through
// a Transport that handles bearer injection and refresh-and-replay; callers
// never see token plumbing.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      CredentialStore
	notifier   Notifier
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	httpClient    *http.Client
	notifier      Notifier
	onAuthFailure func()
	log           zerolog.Logger
}

// WithHTTPClient replaces the underlying HTTP client. Its transport becomes
// the base of the authenticating Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithNotifier routes user-facing failure notifications to n.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithOnAuthFailure registers fn to run after an unrecoverable authorization
// failure, once stored tokens have been cleared.
func WithOnAuthFailure(fn func()) Option {
	return func(o *options) { o.onAuthFailure = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds a Client for the API at baseURL, persisting credentials in
// store.
func New(baseURL string, store CredentialStore, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	o := options{
		notifier: nopNotifier{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	transport := &Transport{
		Base:          hc.Transport,
		Store:         store,
		RefreshURL:    baseURL + "/api/v1/auth/refresh",
		Notifier:      o.notifier,
		OnAuthFailure: o.onAuthFailure,
		Log:           o.log,
	}
	// Shallow copy so the caller's client keeps its own transport.
	wrapped := *hc
	wrapped.Transport = transport

	return &Client{
		baseURL:    baseURL,
		httpClient: &wrapped,
		store:      store,
		notifier:   o.notifier,
		log:        o.log,
	}, nil
}

// Login exchanges credentials for a token pair and persists it. The login
// field accepts a username or an email address.
func (c *Client) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"login":    login,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetPair(out.AccessToken, out.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}
	return &out, nil
}

// Register creates an account and, like Login, persists the returned token
// pair so the new user is immediately signed in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	payload := map[string]string{
		"email":        in.Email,
		"username":     in.Username,
		"password":     in.Password,
		"display_name": in.DisplayName,
		"role":         string(in.Role),
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", payload, &out); err != nil {
		return nil, err
	}
	if err := c.store.SetPair(out.AccessToken, out.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}
	return &out, nil
}

// Logout revokes the stored refresh token server-side. Stored credentials
// are always cleared locally, even when the revocation call fails.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken := c.store.RefreshToken()
	var reqErr error
	if refreshToken != "" {
		reqErr = c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", map[string]string{
			"refresh_token": refreshToken,
		}, nil)
	}
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return reqErr
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update and returns the updated
// user.
func (c *Client) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/users/"+url.PathEscape(userID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks the backend to email a reset token. The backend
// responds identically whether or not the address is registered.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/password-reset/request", map[string]string{
		"email": email,
	}, nil)
}

// ConfirmPasswordReset sets a new password using an emailed reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/password-reset/confirm", map[string]string{
		"token":        token,
		"new_password": newPassword,
	}, nil)
}

// VerifyEmail consumes an emailed verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/verify-email", map[string]string{
		"token": token,
	}, nil)
}

// ChangePassword replaces the user's password, confirming with the current
// one.
func (c *Client) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/v1/users/"+url.PathEscape(userID)+"/password", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	}, nil)
}

// DeleteAccount deactivates the user's account, confirming with the current
// password, and clears stored credentials.
func (c *Client) DeleteAccount(ctx context.Context, userID, password string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/users/"+url.PathEscape(userID), map[string]string{
		"password": password,
	}, nil); err != nil {
		return err
	}
	return c.store.Clear()
}

// doJSON performs one API call: marshals body (when non-nil), decodes a 2xx
// response into out (when non-nil), and converts error responses into
// *APIError carrying the backend's detail message.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(raw)), nil
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
