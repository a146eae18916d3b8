package service

import (
	"context"
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

// ShowService implements show listings, the show status state machine and
// the venue subset needed to host shows.
type ShowService struct {
	shows  ports.ShowRepository
	venues ports.VenueRepository
}

func NewShowService(shows ports.ShowRepository, venues ports.VenueRepository) *ShowService {
	return &ShowService{shows: shows, venues: venues}
}

func (s *ShowService) CreateShow(ctx context.Context, input ports.CreateShowInput) (*domain.Show, error) {
	if input.Role != domain.RolePromoter && input.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := s.venues.FindByID(ctx, input.VenueID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	show := &domain.Show{
		Title:       input.Title,
		Description: input.Description,
		VenueID:     input.VenueID,
		PromoterID:  input.PromoterID,
		ArtistIDs:   input.ArtistIDs,
		StartsAt:    input.StartsAt.UTC(),
		DoorPrice:   input.DoorPrice,
		Currency:    input.Currency,
		Status:      domain.ShowDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.shows.Create(ctx, show)
}

func (s *ShowService) GetShow(ctx context.Context, id string) (*domain.Show, error) {
	return s.shows.FindByID(ctx, id)
}

func (s *ShowService) ListShows(ctx context.Context, filter ports.ListShowsFilter) (*ports.ListShowsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.shows.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListShowsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *ShowService) UpdateShowStatus(ctx context.Context, id string, next domain.ShowStatus, callerID string, role domain.Role) (*domain.Show, error) {
	show, err := s.shows.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && show.PromoterID != callerID {
		return nil, domain.ErrForbidden
	}
	if !show.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.shows.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	show.Status = next
	return show, nil
}

func (s *ShowService) CreateVenue(ctx context.Context, input ports.CreateVenueInput) (*domain.Venue, error) {
	if input.Role != domain.RoleVenue && input.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	venue := &domain.Venue{
		Name:      input.Name,
		Address:   input.Address,
		City:      input.City,
		Capacity:  input.Capacity,
		OwnerID:   input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.venues.Create(ctx, venue)
}

func (s *ShowService) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	return s.venues.FindByID(ctx, id)
}

func (s *ShowService) ListVenues(ctx context.Context, city string, page, limit int) ([]*domain.Venue, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.venues.List(ctx, city, page, limit)
}
