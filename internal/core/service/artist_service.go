package service

import (
	"context"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

// ArtistService implements artist profile reads, self-service updates and browsing.
type ArtistService struct {
	users   ports.UserRepository
	artists ports.ArtistRepository
}

func NewArtistService(users ports.UserRepository, artists ports.ArtistRepository) *ArtistService {
	return &ArtistService{users: users, artists: artists}
}

func (s *ArtistService) GetByUsername(ctx context.Context, username string) (*ports.ArtistView, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleArtist {
		return nil, domain.ErrArtistNotFound
	}
	profile, err := s.artists.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ArtistView{User: user, Profile: profile}, nil
}

func (s *ArtistService) UpdateOwn(ctx context.Context, userID string, role domain.Role, fields ports.UpdateArtistFields) (*domain.ArtistProfile, error) {
	if role != domain.RoleArtist {
		return nil, domain.ErrForbidden
	}
	return s.artists.Update(ctx, userID, fields)
}

func (s *ArtistService) List(ctx context.Context, filter ports.ListArtistsFilter) (*ports.ListArtistsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	profiles, total, err := s.artists.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*ports.ArtistView, 0, len(profiles))
	for _, p := range profiles {
		user, err := s.users.FindByID(ctx, p.UserID)
		if err != nil {
			// Orphaned profile (account deleted): skip rather than fail the page.
			continue
		}
		items = append(items, &ports.ArtistView{User: user, Profile: p})
	}

	return &ports.ListArtistsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}
