package ports

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// ArtistView joins a user account with its artist profile for read endpoints.
type ArtistView struct {
	User    *domain.User
	Profile *domain.ArtistProfile
}

// ListArtistsResult is returned by ArtistService.List.
type ListArtistsResult struct {
	Items      []*ArtistView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ArtistService defines use-case operations on artist profiles.
type ArtistService interface {
	GetByUsername(ctx context.Context, username string) (*ArtistView, error)
	// UpdateOwn updates the caller's artist profile. The caller must hold
	// RoleArtist.
	UpdateOwn(ctx context.Context, userID string, role domain.Role, fields UpdateArtistFields) (*domain.ArtistProfile, error)
	List(ctx context.Context, filter ListArtistsFilter) (*ListArtistsResult, error)
}
