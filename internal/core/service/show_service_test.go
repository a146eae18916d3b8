package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

func showFixture(shows ...*domain.Show) (*ShowService, *stubShowRepo, *stubVenueRepo) {
	showRepo := newStubShowRepo(shows...)
	venueRepo := newStubVenueRepo(&domain.Venue{ID: "v1", Name: "Molotow", City: "Hamburg", OwnerID: "owner-1"})
	return NewShowService(showRepo, venueRepo), showRepo, venueRepo
}

func TestCreateShow_PromoterStartsInDraft(t *testing.T) {
	svc, _, _ := showFixture()

	show, err := svc.CreateShow(context.Background(), ports.CreateShowInput{
		Title:      "Friday Night Live",
		VenueID:    "v1",
		ArtistIDs:  []string{"a1"},
		StartsAt:   time.Now().Add(14 * 24 * time.Hour),
		DoorPrice:  12,
		Currency:   "EUR",
		PromoterID: "p1",
		Role:       domain.RolePromoter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if show.Status != domain.ShowDraft {
		t.Errorf("new shows must start in draft, got %q", show.Status)
	}
	if show.PromoterID != "p1" {
		t.Errorf("unexpected promoter: %q", show.PromoterID)
	}
}

func TestCreateShow_RoleGate(t *testing.T) {
	svc, _, _ := showFixture()

	for _, role := range []domain.Role{domain.RoleArtist, domain.RoleVenue, domain.RoleUser} {
		_, err := svc.CreateShow(context.Background(), ports.CreateShowInput{
			Title:      "Nope",
			VenueID:    "v1",
			PromoterID: "p1",
			Role:       role,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestCreateShow_UnknownVenue(t *testing.T) {
	svc, _, _ := showFixture()

	_, err := svc.CreateShow(context.Background(), ports.CreateShowInput{
		Title:      "Friday Night Live",
		VenueID:    "no-such-venue",
		PromoterID: "p1",
		Role:       domain.RolePromoter,
	})
	if !errors.Is(err, domain.ErrVenueNotFound) {
		t.Errorf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestUpdateShowStatus_ValidTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.ShowStatus
	}{
		{domain.ShowDraft, domain.ShowAnnounced},
		{domain.ShowDraft, domain.ShowCancelled},
		{domain.ShowAnnounced, domain.ShowCancelled},
		{domain.ShowAnnounced, domain.ShowCompleted},
	}
	for _, tc := range cases {
		svc, repo, _ := showFixture(&domain.Show{ID: "s1", PromoterID: "p1", Status: tc.from})

		show, err := svc.UpdateShowStatus(context.Background(), "s1", tc.to, "p1", domain.RolePromoter)
		if err != nil {
			t.Errorf("%s→%s: unexpected error: %v", tc.from, tc.to, err)
			continue
		}
		if show.Status != tc.to {
			t.Errorf("%s→%s: returned status %q", tc.from, tc.to, show.Status)
		}
		if stored, _ := repo.FindByID(context.Background(), "s1"); stored.Status != tc.to {
			t.Errorf("%s→%s: stored status %q", tc.from, tc.to, stored.Status)
		}
	}
}

func TestUpdateShowStatus_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.ShowStatus
	}{
		{domain.ShowDraft, domain.ShowCompleted},
		{domain.ShowCancelled, domain.ShowAnnounced},
		{domain.ShowCompleted, domain.ShowDraft},
		{domain.ShowAnnounced, domain.ShowDraft},
	}
	for _, tc := range cases {
		svc, _, _ := showFixture(&domain.Show{ID: "s1", PromoterID: "p1", Status: tc.from})

		_, err := svc.UpdateShowStatus(context.Background(), "s1", tc.to, "p1", domain.RolePromoter)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("%s→%s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestUpdateShowStatus_OwnershipGate(t *testing.T) {
	svc, _, _ := showFixture(&domain.Show{ID: "s1", PromoterID: "p1", Status: domain.ShowDraft})

	_, err := svc.UpdateShowStatus(context.Background(), "s1", domain.ShowAnnounced, "someone-else", domain.RolePromoter)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	// Admins bypass ownership.
	show, err := svc.UpdateShowStatus(context.Background(), "s1", domain.ShowAnnounced, "admin-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show.Status != domain.ShowAnnounced {
		t.Errorf("unexpected status %q", show.Status)
	}
}

func TestCreateVenue_RoleGate(t *testing.T) {
	svc, _, _ := showFixture()

	_, err := svc.CreateVenue(context.Background(), ports.CreateVenueInput{
		Name:    "Hafenklang",
		City:    "Hamburg",
		OwnerID: "p1",
		Role:    domain.RolePromoter,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for promoter, got %v", err)
	}

	venue, err := svc.CreateVenue(context.Background(), ports.CreateVenueInput{
		Name:     "Hafenklang",
		City:     "Hamburg",
		Capacity: 200,
		OwnerID:  "owner-2",
		Role:     domain.RoleVenue,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if venue.ID == "" || venue.Capacity != 200 {
		t.Errorf("unexpected venue: %+v", venue)
	}
}

func TestListShows_FiltersByStatus(t *testing.T) {
	svc, _, _ := showFixture(
		&domain.Show{ID: "s1", VenueID: "v1", Status: domain.ShowAnnounced},
		&domain.Show{ID: "s2", VenueID: "v1", Status: domain.ShowDraft},
	)

	result, err := svc.ListShows(context.Background(), ports.ListShowsFilter{Status: domain.ShowAnnounced})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "s1" {
		t.Errorf("unexpected items: %+v", result.Items)
	}
	if result.Page != 1 || result.Limit != 20 {
		t.Errorf("expected defaulted pagination, got page=%d limit=%d", result.Page, result.Limit)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{-3, -1, 1, 20},
		{2, 50, 2, 50},
		{1, 500, 1, 100},
	}
	for _, tc := range cases {
		page, limit := normalizePage(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
