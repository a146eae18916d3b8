package ports

import (
	"context"
	"time"
)

// RefreshTokenStore persists opaque refresh tokens keyed to a username.
// Tokens expire server-side; a successful refresh rotates the token.
type RefreshTokenStore interface {
	// Save stores token → username with the given TTL.
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	// Lookup resolves a token to its username. Returns domain.ErrTokenInvalid
	// when the token is unknown or expired.
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// ActionTokenKind separates the single-use token namespaces.
type ActionTokenKind string

const (
	TokenPasswordReset     ActionTokenKind = "pwreset"
	TokenEmailVerification ActionTokenKind = "verify"
)

// ActionTokenStore persists single-use tokens for password reset and email
// verification flows. Consume deletes the token as it resolves it, so a
// token can only ever be redeemed once.
type ActionTokenStore interface {
	Save(ctx context.Context, kind ActionTokenKind, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, kind ActionTokenKind, token string) (string, error)
}
