package ports

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// ListUsersFilter carries pagination parameters for the admin user listing.
type ListUsersFilter struct {
	Role  domain.Role // optional: filter by role
	Page  int         // 1-based
	Limit int         // max rows per page (capped at 100 by service)
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByLogin resolves login input that may be either a username or an email.
	FindByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	// Update persists the given mutable fields; zero-value fields in fields
	// are skipped (partial update).
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	SetVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}

// UpdateUserFields carries the profile attributes a user may change.
// Nil pointers mean "leave unchanged".
type UpdateUserFields struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	Location    *string
	Website     *string
	SocialLinks map[string]string
}
