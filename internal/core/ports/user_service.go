package ports

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// ListUsersResult is returned by UserService.List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines use-case operations on user profiles.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	// Update applies a partial profile update. Callers may only update their
	// own profile unless their role is admin.
	Update(ctx context.Context, callerID string, callerRole domain.Role, targetID string, fields UpdateUserFields) (*domain.User, error)
	// List is restricted to admins by the transport layer (RBAC middleware).
	List(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
}
