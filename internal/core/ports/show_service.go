package ports

import (
	"context"
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// CreateShowInput carries all data needed to list a new show.
type CreateShowInput struct {
	Title       string
	Description string
	VenueID     string
	ArtistIDs   []string
	StartsAt    time.Time
	DoorPrice   float64
	Currency    string
	// PromoterID and Role come from verified claims, not the request body.
	PromoterID string
	Role       domain.Role
}

// CreateVenueInput carries all data needed to register a venue.
type CreateVenueInput struct {
	Name     string
	Address  string
	City     string
	Capacity int
	OwnerID  string
	Role     domain.Role
}

// ListShowsResult is returned by ShowService.List.
type ListShowsResult struct {
	Items      []*domain.Show
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ShowService defines use-case operations for shows and venues.
type ShowService interface {
	CreateShow(ctx context.Context, input CreateShowInput) (*domain.Show, error)
	GetShow(ctx context.Context, id string) (*domain.Show, error)
	ListShows(ctx context.Context, filter ListShowsFilter) (*ListShowsResult, error)
	// UpdateShowStatus enforces the show status transition table. Only the
	// owning promoter or an admin may change a show's status.
	UpdateShowStatus(ctx context.Context, id string, next domain.ShowStatus, callerID string, role domain.Role) (*domain.Show, error)

	CreateVenue(ctx context.Context, input CreateVenueInput) (*domain.Venue, error)
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	ListVenues(ctx context.Context, city string, page, limit int) ([]*domain.Venue, int64, error)
}
