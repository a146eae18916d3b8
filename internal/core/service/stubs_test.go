package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository backing the service tests.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.nextID++
	u := *user
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[u.ID] = &u
	return &u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	if strings.Contains(usernameOrEmail, "@") {
		return r.FindByEmail(ctx, usernameOrEmail)
	}
	return r.FindByUsername(ctx, usernameOrEmail)
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fields.DisplayName != nil {
		u.DisplayName = *fields.DisplayName
	}
	if fields.Bio != nil {
		u.Bio = *fields.Bio
	}
	if fields.AvatarURL != nil {
		u.AvatarURL = *fields.AvatarURL
	}
	if fields.Location != nil {
		u.Location = *fields.Location
	}
	if fields.Website != nil {
		u.Website = *fields.Website
	}
	if fields.SocialLinks != nil {
		u.SocialLinks = fields.SocialLinks
	}
	return u, nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type stubArtistRepo struct {
	profiles map[string]*domain.ArtistProfile // keyed by user ID
	nextID   int
}

func newStubArtistRepo() *stubArtistRepo {
	return &stubArtistRepo{profiles: map[string]*domain.ArtistProfile{}}
}

func (r *stubArtistRepo) Create(_ context.Context, profile *domain.ArtistProfile) (*domain.ArtistProfile, error) {
	r.nextID++
	p := *profile
	p.ID = fmt.Sprintf("artist-%d", r.nextID)
	r.profiles[p.UserID] = &p
	return &p, nil
}

func (r *stubArtistRepo) FindByUserID(_ context.Context, userID string) (*domain.ArtistProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrArtistNotFound
}

func (r *stubArtistRepo) Update(_ context.Context, userID string, fields ports.UpdateArtistFields) (*domain.ArtistProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrArtistNotFound
	}
	if fields.Bio != nil {
		p.Bio = *fields.Bio
	}
	if fields.Genres != nil {
		p.Genres = fields.Genres
	}
	if fields.Instruments != nil {
		p.Instruments = fields.Instruments
	}
	if fields.Location != nil {
		p.Location = *fields.Location
	}
	if fields.Website != nil {
		p.Website = *fields.Website
	}
	return p, nil
}

func (r *stubArtistRepo) List(_ context.Context, filter ports.ListArtistsFilter) ([]*domain.ArtistProfile, int64, error) {
	var out []*domain.ArtistProfile
	for _, p := range r.profiles {
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type stubRefreshStore struct {
	tokens map[string]string // token → username
}

func newStubRefreshStore() *stubRefreshStore {
	return &stubRefreshStore{tokens: map[string]string{}}
}

func (s *stubRefreshStore) Save(_ context.Context, token, username string, _ time.Duration) error {
	s.tokens[token] = username
	return nil
}

func (s *stubRefreshStore) Lookup(_ context.Context, token string) (string, error) {
	if username, ok := s.tokens[token]; ok {
		return username, nil
	}
	return "", domain.ErrTokenInvalid
}

func (s *stubRefreshStore) Revoke(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type stubActionStore struct {
	tokens map[string]string // kind:token → user ID
}

func newStubActionStore() *stubActionStore {
	return &stubActionStore{tokens: map[string]string{}}
}

func (s *stubActionStore) Save(_ context.Context, kind ports.ActionTokenKind, token, userID string, _ time.Duration) error {
	s.tokens[string(kind)+":"+token] = userID
	return nil
}

func (s *stubActionStore) Consume(_ context.Context, kind ports.ActionTokenKind, token string) (string, error) {
	key := string(kind) + ":" + token
	userID, ok := s.tokens[key]
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	delete(s.tokens, key)
	return userID, nil
}

// stubMailer records enqueued jobs instead of delivering them.
type stubMailer struct {
	jobs []ports.MailJob
}

func (m *stubMailer) Enqueue(job ports.MailJob) {
	m.jobs = append(m.jobs, job)
}

type stubShowRepo struct {
	shows  map[string]*domain.Show
	nextID int
}

func newStubShowRepo(shows ...*domain.Show) *stubShowRepo {
	r := &stubShowRepo{shows: map[string]*domain.Show{}}
	for _, s := range shows {
		r.shows[s.ID] = s
	}
	return r
}

func (r *stubShowRepo) Create(_ context.Context, show *domain.Show) (*domain.Show, error) {
	r.nextID++
	s := *show
	s.ID = fmt.Sprintf("show-%d", r.nextID)
	r.shows[s.ID] = &s
	return &s, nil
}

func (r *stubShowRepo) FindByID(_ context.Context, id string) (*domain.Show, error) {
	if s, ok := r.shows[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrShowNotFound
}

func (r *stubShowRepo) UpdateStatus(_ context.Context, id string, status domain.ShowStatus) error {
	s, ok := r.shows[id]
	if !ok {
		return domain.ErrShowNotFound
	}
	s.Status = status
	return nil
}

func (r *stubShowRepo) List(_ context.Context, filter ports.ListShowsFilter) ([]*domain.Show, int64, error) {
	var out []*domain.Show
	for _, s := range r.shows {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.VenueID != "" && s.VenueID != filter.VenueID {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

type stubVenueRepo struct {
	venues map[string]*domain.Venue
	nextID int
}

func newStubVenueRepo(venues ...*domain.Venue) *stubVenueRepo {
	r := &stubVenueRepo{venues: map[string]*domain.Venue{}}
	for _, v := range venues {
		r.venues[v.ID] = v
	}
	return r
}

func (r *stubVenueRepo) Create(_ context.Context, venue *domain.Venue) (*domain.Venue, error) {
	r.nextID++
	v := *venue
	v.ID = fmt.Sprintf("venue-%d", r.nextID)
	r.venues[v.ID] = &v
	return &v, nil
}

func (r *stubVenueRepo) FindByID(_ context.Context, id string) (*domain.Venue, error) {
	if v, ok := r.venues[id]; ok {
		return v, nil
	}
	return nil, domain.ErrVenueNotFound
}

func (r *stubVenueRepo) List(_ context.Context, city string, _, _ int) ([]*domain.Venue, int64, error) {
	var out []*domain.Venue
	for _, v := range r.venues {
		if city != "" && v.City != city {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}
