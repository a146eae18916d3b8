package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

const testSecret = "test-secret"

type authFixture struct {
	svc     *AuthService
	users   *stubUserRepo
	artists *stubArtistRepo
	refresh *stubRefreshStore
	actions *stubActionStore
	mail    *stubMailer
}

func newAuthFixture(users ...*domain.User) *authFixture {
	f := &authFixture{
		users:   newStubUserRepo(users...),
		artists: newStubArtistRepo(),
		refresh: newStubRefreshStore(),
		actions: newStubActionStore(),
		mail:    &stubMailer{},
	}
	f.svc = NewAuthService(f.users, f.artists, f.refresh, f.actions, f.mail, testSecret, 30*time.Minute, 24*time.Hour)
	return f
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func activeUser(t *testing.T, id, username string, role domain.Role) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		DisplayName:  username,
		PasswordHash: hashOf(t, "correct horse"),
		Role:         role,
		IsActive:     true,
	}
}

func TestRegister_IssuesTokensAndVerificationMail(t *testing.T) {
	f := newAuthFixture()

	result, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "pete@example.com",
		Username:    "pete",
		Password:    "longenough",
		DisplayName: "Pete",
		Role:        domain.RolePromoter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.ID == "" || result.User.Role != domain.RolePromoter {
		t.Errorf("unexpected user: %+v", result.User)
	}
	if !result.User.IsActive {
		t.Error("new accounts must be active")
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
	if result.ArtistProfile != nil {
		t.Error("non-artist registration must not create an artist profile")
	}
	if len(f.mail.jobs) != 1 || f.mail.jobs[0].To != "pete@example.com" {
		t.Errorf("expected one verification mail, got %+v", f.mail.jobs)
	}
}

func TestRegister_ArtistGetsProfile(t *testing.T) {
	f := newAuthFixture()

	result, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "nadia@example.com",
		Username:    "nadia",
		Password:    "longenough",
		DisplayName: "Nadia",
		Role:        domain.RoleArtist,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ArtistProfile == nil {
		t.Fatal("expected an artist profile")
	}
	if result.ArtistProfile.UserID != result.User.ID {
		t.Errorf("profile bound to %q, want %q", result.ArtistProfile.UserID, result.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "nadia@example.com",
		Username:    "othername",
		Password:    "longenough",
		DisplayName: "Other",
		Role:        domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "boss@example.com",
		Username:    "boss",
		Password:    "longenough",
		DisplayName: "Boss",
		Role:        domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "pete@example.com",
		Username:    "pete",
		Password:    "short",
		DisplayName: "Pete",
		Role:        domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	for _, login := range []string{"nadia", "nadia@example.com"} {
		result, err := f.svc.Login(context.Background(), login, "correct horse")
		if err != nil {
			t.Fatalf("login %q: unexpected error: %v", login, err)
		}
		if result.User.Username != "nadia" {
			t.Errorf("login %q: got user %q", login, result.User.Username)
		}
		if result.Tokens.AccessToken == "" {
			t.Errorf("login %q: missing access token", login)
		}
	}
}

func TestLogin_AccessTokenClaims(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	result, err := f.svc.Login(context.Background(), "nadia", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(result.Tokens.AccessToken, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "u1" || claims["username"] != "nadia" || claims["role"] != "artist" {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	if _, err := f.svc.Login(context.Background(), "nadia", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	user := activeUser(t, "u1", "nadia", domain.RoleArtist)
	user.IsActive = false
	f := newAuthFixture(user)

	if _, err := f.svc.Login(context.Background(), "nadia", "correct horse"); !errors.Is(err, domain.ErrInactiveUser) {
		t.Errorf("expected ErrInactiveUser, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	login, err := f.svc.Login(context.Background(), "nadia", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	old := login.Tokens.RefreshToken
	pair, err := f.svc.Refresh(context.Background(), old)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pair.RefreshToken == "" || pair.RefreshToken == old {
		t.Error("expected a fresh refresh token")
	}
	// The presented token died with the exchange.
	if _, err := f.svc.Refresh(context.Background(), old); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for reused token, got %v", err)
	}
	// The new one still works.
	if _, err := f.svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Errorf("fresh token rejected: %v", err)
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Refresh(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	login, err := f.svc.Login(context.Background(), "nadia", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Logout(context.Background(), login.Tokens.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), login.Tokens.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected revoked token to be invalid, got %v", err)
	}

	// Unknown tokens are not an error.
	if err := f.svc.Logout(context.Background(), "already-gone"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCurrentUser_MergesArtistProfile(t *testing.T) {
	user := activeUser(t, "u1", "nadia", domain.RoleArtist)
	f := newAuthFixture(user)
	_, _ = f.artists.Create(context.Background(), &domain.ArtistProfile{
		UserID:   "u1",
		Bio:      "bass and vocals",
		Location: "Hamburg",
	})

	got, err := f.svc.CurrentUser(context.Background(), "nadia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bio != "bass and vocals" || got.Location != "Hamburg" {
		t.Errorf("expected profile fields merged, got %+v", got)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture()

	if err := f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Errorf("unknown email must not error, got %v", err)
	}
	if len(f.mail.jobs) != 0 {
		t.Errorf("expected no mail for unknown email, got %d", len(f.mail.jobs))
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	if err := f.svc.RequestPasswordReset(context.Background(), "nadia@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mail.jobs) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(f.mail.jobs))
	}

	// Pluck the token out of the stub store rather than parsing mail text.
	var token string
	for key := range f.actions.tokens {
		token = strings.TrimPrefix(key, string(ports.TokenPasswordReset)+":")
	}
	if token == "" {
		t.Fatal("no reset token stored")
	}

	if err := f.svc.ConfirmPasswordReset(context.Background(), token, "brand new pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Login(context.Background(), "nadia", "brand new pass"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "nadia", "correct horse"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password must no longer work, got %v", err)
	}

	// The token is single-use.
	if err := f.svc.ConfirmPasswordReset(context.Background(), token, "another pass1"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid on reuse, got %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture()

	result, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "pete@example.com",
		Username:    "pete",
		Password:    "longenough",
		DisplayName: "Pete",
		Role:        domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var token string
	for key := range f.actions.tokens {
		token = strings.TrimPrefix(key, string(ports.TokenEmailVerification)+":")
	}
	if token == "" {
		t.Fatal("no verification token stored")
	}

	if err := f.svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := f.users.FindByID(context.Background(), result.User.ID); !got.IsVerified {
		t.Error("expected user marked verified")
	}
}

func TestChangePassword_RequiresCurrent(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	err := f.svc.ChangePassword(context.Background(), "u1", "wrong", "brand new pass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := f.svc.ChangePassword(context.Background(), "u1", "correct horse", "brand new pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "nadia", "brand new pass"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestDeleteAccount_DeactivatesUser(t *testing.T) {
	f := newAuthFixture(activeUser(t, "u1", "nadia", domain.RoleArtist))

	if err := f.svc.DeleteAccount(context.Background(), "u1", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := f.svc.DeleteAccount(context.Background(), "u1", "correct horse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "nadia", "correct horse"); !errors.Is(err, domain.ErrInactiveUser) {
		t.Errorf("expected deactivated account, got %v", err)
	}
}
