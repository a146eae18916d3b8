package handler

import (
	"time"

	"github.com/setlist-live/setlist/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth request types ---

type registerRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Username    string `json:"username"     validate:"required,alphanum,min=3,max=50"`
	Password    string `json:"password"     validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Role        string `json:"role"         validate:"required,oneof=artist promoter venue user"`
}

type loginRequest struct {
	// Login accepts a username or an email address.
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// --- User request types ---

type updateProfileRequest struct {
	DisplayName *string           `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio         *string           `json:"bio,omitempty"`
	AvatarURL   *string           `json:"avatar_url,omitempty"   validate:"omitempty,url"`
	Location    *string           `json:"location,omitempty"`
	Website     *string           `json:"website,omitempty"      validate:"omitempty,url"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type deleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// --- Artist request types ---

type updateArtistProfileRequest struct {
	Bio         *string  `json:"bio,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Instruments []string `json:"instruments,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Website     *string  `json:"website,omitempty" validate:"omitempty,url"`
}

// --- Show / venue request types ---

type createShowRequest struct {
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description"`
	VenueID     string    `json:"venue_id"    validate:"required"`
	ArtistIDs   []string  `json:"artist_ids"  validate:"required,min=1"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	DoorPrice   float64   `json:"door_price"  validate:"gte=0"`
	Currency    string    `json:"currency"    validate:"required,len=3"`
}

type updateShowStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=announced cancelled completed"`
}

type createVenueRequest struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Address  string `json:"address"  validate:"required"`
	City     string `json:"city"     validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type userResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Role        string            `json:"role"`
	Bio         string            `json:"bio,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Location    string            `json:"location,omitempty"`
	Website     string            `json:"website,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
	IsVerified  bool              `json:"is_verified"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type artistProfileResponse struct {
	UserID      string   `json:"user_id"`
	Bio         string   `json:"bio,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Instruments []string `json:"instruments,omitempty"`
	Location    string   `json:"location,omitempty"`
	Website     string   `json:"website,omitempty"`
}

type authResponse struct {
	User          userResponse           `json:"user"`
	AccessToken   string                 `json:"access_token"`
	RefreshToken  string                 `json:"refresh_token,omitempty"`
	TokenType     string                 `json:"token_type"`
	ArtistProfile *artistProfileResponse `json:"artist_profile,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type artistResponse struct {
	User    userResponse          `json:"user"`
	Profile artistProfileResponse `json:"profile"`
}

type showResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	VenueID     string    `json:"venue_id"`
	PromoterID  string    `json:"promoter_id"`
	ArtistIDs   []string  `json:"artist_ids"`
	StartsAt    time.Time `json:"starts_at"`
	DoorPrice   float64   `json:"door_price"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type venueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	OwnerID  string `json:"owner_id"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		Location:    u.Location,
		Website:     u.Website,
		SocialLinks: u.SocialLinks,
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toArtistProfileResponse(p *domain.ArtistProfile) artistProfileResponse {
	return artistProfileResponse{
		UserID:      p.UserID,
		Bio:         p.Bio,
		Genres:      p.Genres,
		Instruments: p.Instruments,
		Location:    p.Location,
		Website:     p.Website,
	}
}

func toShowResponse(s *domain.Show) showResponse {
	return showResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		VenueID:     s.VenueID,
		PromoterID:  s.PromoterID,
		ArtistIDs:   s.ArtistIDs,
		StartsAt:    s.StartsAt,
		DoorPrice:   s.DoorPrice,
		Currency:    s.Currency,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

func toVenueResponse(v *domain.Venue) venueResponse {
	return venueResponse{
		ID:       v.ID,
		Name:     v.Name,
		Address:  v.Address,
		City:     v.City,
		Capacity: v.Capacity,
		OwnerID:  v.OwnerID,
	}
}
