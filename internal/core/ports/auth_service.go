package ports

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// RegisterInput carries all fields needed to open an account.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
	Role        domain.Role
}

// TokenPair is the credential pair issued on login, register and refresh.
// RefreshToken is empty on a plain refresh (only the access token rotates
// client-side; the refresh token rotates server-side via RotatedRefresh).
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// AuthResult bundles the authenticated identity with its credentials.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
	// ArtistProfile is set when registration created one (role artist).
	ArtistProfile *domain.ArtistProfile
}

// AuthService implements the account and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// Login accepts a username or an email in the first argument.
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error)
	// Refresh exchanges a refresh token for a new access token, rotating the
	// refresh token in the process.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes the refresh token. Unknown tokens are not an error.
	Logout(ctx context.Context, refreshToken string) error
	// CurrentUser resolves the identity behind a username taken from verified
	// claims, merging artist profile fields for artist accounts.
	CurrentUser(ctx context.Context, username string) (*domain.User, error)
	// RequestPasswordReset enqueues a reset mail. An unknown email succeeds
	// silently so the endpoint cannot be used to enumerate accounts.
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// DeleteAccount requires the current password as confirmation.
	DeleteAccount(ctx context.Context, userID, password string) error
}
