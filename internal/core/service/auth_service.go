package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

const (
	minPasswordLength  = 8
	resetTokenTTL      = time.Hour
	verifyTokenTTL     = 48 * time.Hour
	defaultAccessTTL   = 30 * time.Minute
	defaultRefreshTTL  = 30 * 24 * time.Hour
	actionTokenEntropy = 32
)

// AuthService implements the account and session lifecycle: registration,
// login, token refresh with rotation, and the mail-backed reset/verify flows.
type AuthService struct {
	users      ports.UserRepository
	artists    ports.ArtistRepository
	refresh    ports.RefreshTokenStore
	actions    ports.ActionTokenStore
	mail       ports.MailEnqueuer
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	artists ports.ArtistRepository,
	refresh ports.RefreshTokenStore,
	actions ports.ActionTokenStore,
	mail ports.MailEnqueuer,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		users:      users,
		artists:    artists,
		refresh:    refresh,
		actions:    actions,
		mail:       mail,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Username == "" || input.DisplayName == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// Artists get an empty profile immediately so the profile page works
	// before they fill anything in.
	var profile *domain.ArtistProfile
	if created.Role == domain.RoleArtist {
		profile, err = s.artists.Create(ctx, &domain.ArtistProfile{
			UserID:    created.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create artist profile: %w", err)
		}
	}

	if err := s.enqueueVerificationMail(ctx, created); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, created)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{User: created, Tokens: tokens, ArtistProfile: profile}, nil
}

func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*ports.AuthResult, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrTokenInvalid
	}

	username, err := s.refresh.Lookup(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	// Rotate: the presented token dies with this exchange.
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *AuthService) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleArtist {
		profile, err := s.artists.FindByUserID(ctx, user.ID)
		if err == nil {
			mergeArtistProfile(user, profile)
		} else if !errors.Is(err, domain.ErrArtistNotFound) {
			return nil, err
		}
	}
	return user, nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Deliberately silent: the endpoint must not reveal which
			// addresses have accounts.
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.actions.Save(ctx, ports.TokenPasswordReset, token, user.ID, resetTokenTTL); err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{
		To:      user.Email,
		Subject: "Reset your Setlist password",
		Body: fmt.Sprintf("Hi %s,\n\nUse this token to reset your password: %s\n\nThe token expires in one hour. If you did not request a reset, ignore this message.\n",
			user.DisplayName, token),
	})
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	userID, err := s.actions.Consume(ctx, ports.TokenPasswordReset, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.actions.Consume(ctx, ports.TokenEmailVerification, token)
	if err != nil {
		return err
	}
	return s.users.SetVerified(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.ErrInvalidCredentials
	}
	return s.users.Delete(ctx, userID)
}

// issueTokens mints a signed access token and a fresh opaque refresh token.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (ports.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := randomToken()
	if err != nil {
		return ports.TokenPair{}, err
	}
	if err := s.refresh.Save(ctx, refresh, user.Username, s.refreshTTL); err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) enqueueVerificationMail(ctx context.Context, user *domain.User) error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.actions.Save(ctx, ports.TokenEmailVerification, token, user.ID, verifyTokenTTL); err != nil {
		return err
	}
	s.mail.Enqueue(ports.MailJob{
		To:      user.Email,
		Subject: "Verify your Setlist email address",
		Body: fmt.Sprintf("Welcome to Setlist, %s!\n\nUse this token to verify your email address: %s\n",
			user.DisplayName, token),
	})
	return nil
}

func mergeArtistProfile(user *domain.User, profile *domain.ArtistProfile) {
	if profile.Bio != "" {
		user.Bio = profile.Bio
	}
	if profile.Location != "" {
		user.Location = profile.Location
	}
	if profile.Website != "" {
		user.Website = profile.Website
	}
}

func randomToken() (string, error) {
	buf := make([]byte, actionTokenEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
