package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

// RefreshTokenStore persists refresh tokens in Redis with server-side expiry.
// Key format: refresh:<token> → username
type RefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a RefreshTokenStore wrapping the given client.
func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

func (s *RefreshTokenStore) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKey(token), username, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *RefreshTokenStore) Lookup(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}
	return username, nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func refreshKey(token string) string {
	return "refresh:" + token
}

// ActionTokenStore persists single-use password-reset and email-verification
// tokens. Key format: <kind>:<token> → user id
type ActionTokenStore struct {
	client *redis.Client
}

// NewActionTokenStore creates an ActionTokenStore wrapping the given client.
func NewActionTokenStore(client *redis.Client) *ActionTokenStore {
	return &ActionTokenStore{client: client}
}

func (s *ActionTokenStore) Save(ctx context.Context, kind ports.ActionTokenKind, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, actionKey(kind, token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save %s token: %w", kind, err)
	}
	return nil
}

// Consume resolves and deletes the token in one round trip, so a token can
// only ever be redeemed once even under concurrent confirmation attempts.
func (s *ActionTokenStore) Consume(ctx context.Context, kind ports.ActionTokenKind, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, actionKey(kind, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("consume %s token: %w", kind, err)
	}
	return userID, nil
}

func actionKey(kind ports.ActionTokenKind, token string) string {
	return fmt.Sprintf("%s:%s", kind, token)
}
