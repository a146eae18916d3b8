// Package client is the Go SDK for the Setlist API. It bundles three pieces:
//
//   - Transport: an http.RoundTripper that attaches the stored bearer token to
//     every request and transparently performs a single refresh-and-replay
//     when the server rejects the access token.
//   - Session: the authenticated-identity state machine driving login,
//     registration, logout and profile operations, with reactive snapshots
//     for UI layers.
//   - Guard: the role-based route admission policy.
package client

import "time"

// Role mirrors the server-side account roles.
type Role string

const (
	RoleArtist   Role = "artist"
	RolePromoter Role = "promoter"
	RoleVenue    Role = "venue"
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
)

// User is the client-side view of an authenticated identity.
type User struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Role        Role              `json:"role"`
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

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	DisplayName     string
	Role            Role
}

// ProfileUpdate carries changed profile fields only. Nil pointers are
// omitted from the request payload.
type ProfileUpdate struct {
	DisplayName *string           `json:"display_name,omitempty"`
	Bio         *string           `json:"bio,omitempty"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Website     *string           `json:"website,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// AuthResponse is returned by login and register calls.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// Route identifies a navigation target in the hosting application.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteDashboard         Route = "/dashboard"
	RouteArtistProfile     Route = "/artists/me"
	RoutePromoterDashboard Route = "/promoter/dashboard"
	RouteVenueDashboard    Route = "/venues/me"
	RouteAdminDashboard    Route = "/admin"
)

// HomeRoute returns the landing page for a role, used both for post-login
// navigation and as the fallback when a guard denies a page.
func HomeRoute(role Role) Route {
	switch role {
	case RoleArtist:
		return RouteArtistProfile
	case RolePromoter:
		return RoutePromoterDashboard
	case RoleVenue:
		return RouteVenueDashboard
	case RoleAdmin:
		return RouteAdminDashboard
	default:
		return RouteDashboard
	}
}
