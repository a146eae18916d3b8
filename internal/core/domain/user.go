package domain

import (
	"errors"
	"time"
)

// Role categorises an account and gates which pages and actions it may use.
type Role string

const (
	RoleArtist   Role = "artist"
	RolePromoter Role = "promoter"
	RoleVenue    Role = "venue"
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the registrable roles.
// RoleAdmin is excluded: admins are provisioned out of band.
func ValidRole(r Role) bool {
	switch r {
	case RoleArtist, RolePromoter, RoleVenue, RoleUser:
		return true
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInactiveUser = errors.New("inactive user")
var ErrForbidden = errors.New("access forbidden")
var ErrTokenInvalid = errors.New("token invalid or expired")
var ErrWeakPassword = errors.New("password must be at least 8 characters long")

// User is the account record shared by every role on the platform.
type User struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	DisplayName  string            `json:"display_name"`
	PasswordHash string            `json:"-"`
	Role         Role              `json:"role"`
	Bio          string            `json:"bio,omitempty"`
	AvatarURL    string            `json:"avatar_url,omitempty"`
	Location     string            `json:"location,omitempty"`
	Website      string            `json:"website,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	IsVerified   bool              `json:"is_verified"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
