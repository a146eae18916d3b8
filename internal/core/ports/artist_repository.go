package ports

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// UpdateArtistFields carries the artist profile attributes an artist may change.
// Nil pointers mean "leave unchanged".
type UpdateArtistFields struct {
	Bio         *string
	Genres      []string
	Instruments []string
	Location    *string
	Website     *string
}

// ListArtistsFilter carries query parameters for browsing artist profiles.
type ListArtistsFilter struct {
	Genre    string // optional: profiles whose genres contain this value
	Location string // optional: exact match
	Page     int    // 1-based
	Limit    int
}

// ArtistRepository defines persistence operations for artist profiles.
type ArtistRepository interface {
	Create(ctx context.Context, profile *domain.ArtistProfile) (*domain.ArtistProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.ArtistProfile, error)
	Update(ctx context.Context, userID string, fields UpdateArtistFields) (*domain.ArtistProfile, error)
	List(ctx context.Context, filter ListArtistsFilter) ([]*domain.ArtistProfile, int64, error)
}
