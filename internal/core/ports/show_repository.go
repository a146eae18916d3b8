package ports

import (
	"context"
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// ListShowsFilter carries all query parameters for listing shows.
type ListShowsFilter struct {
	VenueID    string            // optional
	PromoterID string            // optional
	Status     domain.ShowStatus // optional
	DateFrom   time.Time         // optional: starts_at >= DateFrom
	DateTo     time.Time         // optional: starts_at <= DateTo
	Page       int               // 1-based
	Limit      int
}

// ShowRepository defines persistence operations for shows.
type ShowRepository interface {
	Create(ctx context.Context, show *domain.Show) (*domain.Show, error)
	FindByID(ctx context.Context, id string) (*domain.Show, error)
	// UpdateStatus atomically sets the show's new status.
	UpdateStatus(ctx context.Context, id string, status domain.ShowStatus) error
	List(ctx context.Context, filter ListShowsFilter) ([]*domain.Show, int64, error)
}

// VenueRepository defines persistence operations for venues.
type VenueRepository interface {
	Create(ctx context.Context, venue *domain.Venue) (*domain.Venue, error)
	FindByID(ctx context.Context, id string) (*domain.Venue, error)
	List(ctx context.Context, city string, page, limit int) ([]*domain.Venue, int64, error)
}
