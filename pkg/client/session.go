package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// State is the session lifecycle phase.
type State string

const (
	// StateBootstrapping means the initial identity resolution has not
	// finished; callers that gate on role should wait rather than redirect.
	StateBootstrapping State = "bootstrapping"
	// StateAuthenticated means a user identity is resolved and current.
	StateAuthenticated State = "authenticated"
	// StateAnonymous means no valid credentials are held.
	StateAnonymous State = "anonymous"
)

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	State State
	User  *User
}

// Authenticated reports whether the snapshot carries a resolved identity.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Session owns the authenticated identity for one running client. All
// state-changing operations are serialized by a single mutex, so overlapping
// calls (a second login while the first is in flight, a logout racing a
// profile refresh) apply in a strict order and the final state matches the
// last operation to run.
type Session struct {
	api *Client
	log zerolog.Logger

	mu    sync.Mutex
	state State
	user  *User
	subs  []func(Snapshot)
}

// NewSession wraps api with session state tracking. The session starts in
// StateBootstrapping; call Bootstrap to resolve the initial identity.
func NewSession(api *Client, opts ...SessionOption) *Session {
	s := &Session{
		api:   api,
		log:   zerolog.Nop(),
		state: StateBootstrapping,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the diagnostic logger.
func WithSessionLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// Snapshot returns the current state and user.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, User: s.user}
}

// Subscribe registers fn to run after every state transition. The callback
// receives the new snapshot and runs outside the session lock.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Bootstrap resolves the initial identity. With no stored access token it
// settles to anonymous without touching the network; otherwise it validates
// the token by fetching the current user, relying on the transport to
// refresh on a stale access token. An unrecoverable failure clears to
// anonymous rather than surfacing an error: a dead session at startup is a
// normal condition, not a fault.
func (s *Session) Bootstrap(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api.store.AccessToken() == "" && s.api.store.RefreshToken() == "" {
		return s.transition(StateAnonymous, nil)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("session bootstrap failed")
		_ = s.api.store.Clear()
		return s.transition(StateAnonymous, nil)
	}
	return s.transition(StateAuthenticated, user)
}

// Login authenticates and returns the role's home route as the suggested
// post-login destination. Form validation runs first; a validation failure
// returns a *ValidationError without touching the network.
func (s *Session) Login(ctx context.Context, login, password string) (Route, error) {
	if err := ValidateLoginForm(login, password); err != nil {
		return RouteLogin, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.api.Login(ctx, login, password)
	if err != nil {
		return RouteLogin, err
	}
	s.transition(StateAuthenticated, &auth.User)
	return HomeRoute(auth.User.Role), nil
}

// Register creates an account and signs the new user in. Like Login it
// validates the form before any network call.
func (s *Session) Register(ctx context.Context, in RegisterInput) (Route, error) {
	if err := ValidateRegistration(in); err != nil {
		return RouteLogin, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.api.Register(ctx, in)
	if err != nil {
		return RouteLogin, err
	}
	s.transition(StateAuthenticated, &auth.User)
	return HomeRoute(auth.User.Role), nil
}

// Logout revokes the session server-side on a best-effort basis. Local
// state always ends anonymous with credentials cleared, whether or not the
// backend call succeeds.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.api.Logout(ctx); err != nil {
		s.log.Debug().Err(err).Msg("server-side logout failed")
	}
	s.transition(StateAnonymous, nil)
}

// UpdateProfile applies a partial update to the signed-in user and refreshes
// the held identity from the response.
func (s *Session) UpdateProfile(ctx context.Context, in ProfileUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.user == nil {
		return nil, &APIError{StatusCode: 401, Detail: "not signed in"}
	}

	user, err := s.api.UpdateProfile(ctx, s.user.ID, in)
	if err != nil {
		return nil, err
	}
	s.transition(StateAuthenticated, user)
	return user, nil
}

// Refresh re-fetches the current user, keeping the held identity in sync
// with the backend.
func (s *Session) Refresh(ctx context.Context) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.transition(StateAuthenticated, user)
	return user, nil
}

// RequestPasswordReset asks the backend to mail a reset token. No session
// state changes on success or failure.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) error {
	return s.api.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset completes the reset flow. No session state change:
// the user signs in with the new password afterwards.
func (s *Session) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return s.api.ConfirmPasswordReset(ctx, token, newPassword)
}

// VerifyEmail redeems an emailed verification token.
func (s *Session) VerifyEmail(ctx context.Context, token string) error {
	return s.api.VerifyEmail(ctx, token)
}

// DeleteAccount deactivates the signed-in account, confirming with the
// current password, and settles the session to anonymous.
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.user == nil {
		return &APIError{StatusCode: 401, Detail: "not signed in"}
	}
	if err := s.api.DeleteAccount(ctx, s.user.ID, password); err != nil {
		return err
	}
	s.transition(StateAnonymous, nil)
	return nil
}

// Invalidate drops the local session without a server call. Wire it to the
// transport's OnAuthFailure hook so an unrecoverable refresh failure lands
// the session in anonymous.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transition(StateAnonymous, nil)
}

// transition must run with s.mu held. Subscribers fire on a fresh goroutine
// so they cannot deadlock against session operations.
func (s *Session) transition(state State, user *User) Snapshot {
	s.state = state
	s.user = user
	snap := Snapshot{State: state, User: user}
	for _, fn := range s.subs {
		go fn(snap)
	}
	return snap
}
