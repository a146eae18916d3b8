package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTransportFixture(t *testing.T, handler http.Handler) (*Transport, *httptest.Server, *MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewMemoryStore()
	tr := &Transport{
		Store:      store,
		RefreshURL: srv.URL + "/api/v1/auth/refresh",
	}
	return tr, srv, store
}

func TestTransport_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	tr, srv, store := newTransportFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	_ = store.SetPair("access-1", "refresh-1")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if gotAuth != "Bearer access-1" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("original request must not be mutated")
	}
}

func TestTransport_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	tr, srv, _ := newTransportFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/shows", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if hasAuth {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestTransport_RefreshAndReplayOnce(t *testing.T) {
	var meAuths []string
	var refreshBody map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		meAuths = append(meAuths, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&refreshBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2"}`))
	})

	tr, srv, store := newTransportFixture(t, mux)
	_ = store.SetPair("access-1", "refresh-1")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after replay, got %d", resp.StatusCode)
	}
	if len(meAuths) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(meAuths))
	}
	if meAuths[0] != "Bearer access-1" || meAuths[1] != "Bearer access-2" {
		t.Errorf("unexpected attempt headers: %v", meAuths)
	}
	if refreshBody["refresh_token"] != "refresh-1" {
		t.Errorf("expected refresh token in request, got %v", refreshBody)
	}
	if store.AccessToken() != "access-2" || store.RefreshToken() != "refresh-2" {
		t.Errorf("expected rotated pair persisted, got %q/%q", store.AccessToken(), store.RefreshToken())
	}
}

func TestTransport_ReplayRewindsBody(t *testing.T) {
	var bodies []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/shows", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"access-2"}`))
	})

	tr, srv, store := newTransportFixture(t, mux)
	_ = store.SetPair("access-1", "refresh-1")

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/shows", strings.NewReader(`{"title":"gig"}`))
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Errorf("expected identical body on replay, got %v", bodies)
	}
	if store.AccessToken() != "access-2" {
		t.Errorf("expected refreshed access token, got %q", store.AccessToken())
	}
	if store.RefreshToken() != "refresh-1" {
		t.Errorf("refresh token must survive access-only rotation, got %q", store.RefreshToken())
	}
}

func TestTransport_RefreshFailureClearsTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid or expired token"}`))
	})

	tr, srv, store := newTransportFixture(t, mux)
	_ = store.SetPair("access-1", "refresh-1")

	var authFailed bool
	tr.OnAuthFailure = func() { authFailed = true }

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	_, err := tr.RoundTrip(req) //nolint:bodyclose
	if err == nil {
		t.Fatal("expected error on refresh failure")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 APIError, got %v", err)
	}
	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Error("expected tokens cleared after refresh failure")
	}
	if !authFailed {
		t.Error("expected OnAuthFailure hook to run")
	}
}

func TestTransport_SecondUnauthorizedPropagates(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2"}`))
	})

	tr, srv, store := newTransportFixture(t, mux)
	_ = store.SetPair("access-1", "refresh-1")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 propagated, got %d", resp.StatusCode)
	}
	if attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", attempts)
	}
}

func TestTransport_NoRefreshTokenStopsRetry(t *testing.T) {
	var attempts int
	tr, srv, store := newTransportFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired, sign in again"}`))
	}))
	_ = store.SetAccess("access-1")

	var gotCategory Notice
	var gotMessage string
	tr.Notifier = NotifierFunc(func(category Notice, message string) {
		gotCategory = category
		gotMessage = message
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt without refresh token, got %d", attempts)
	}

	// The original failure propagates body intact, with the backend detail
	// surfaced verbatim.
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != `{"error":"token expired, sign in again"}` {
		t.Errorf("expected body preserved, got %q", raw)
	}
	if gotCategory != NoticeDetail || gotMessage != "token expired, sign in again" {
		t.Errorf("expected verbatim detail notice, got %q/%q", gotCategory, gotMessage)
	}
}

func TestTransport_NotifiesServerError(t *testing.T) {
	tr, srv, _ := newTransportFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))

	var gotCategory Notice
	var gotMessage string
	tr.Notifier = NotifierFunc(func(category Notice, message string) {
		gotCategory = category
		gotMessage = message
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/shows", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if gotCategory != NoticeServer {
		t.Errorf("expected server notice, got %q", gotCategory)
	}
	if gotMessage != "Server error. Please try again later." {
		t.Errorf("unexpected message: %q", gotMessage)
	}

	// The body must still be readable by the caller after classification.
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != `{"error":"boom"}` {
		t.Errorf("expected body preserved, got %q", raw)
	}
}

func TestTransport_NotifiesBackendDetail(t *testing.T) {
	tr, srv, _ := newTransportFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"username already taken"}`))
	}))

	var gotCategory Notice
	var gotMessage string
	tr.Notifier = NotifierFunc(func(category Notice, message string) {
		gotCategory = category
		gotMessage = message
	})

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/register", strings.NewReader(`{}`))
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if gotCategory != NoticeDetail {
		t.Errorf("expected detail notice, got %q", gotCategory)
	}
	if gotMessage != "username already taken" {
		t.Errorf("expected backend message verbatim, got %q", gotMessage)
	}
}
