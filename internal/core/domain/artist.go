package domain

import (
	"errors"
	"time"
)

var ErrArtistNotFound = errors.New("artist profile not found")

// ArtistProfile extends a User with performer-specific attributes.
// One profile per user; created automatically when an account registers
// with RoleArtist.
type ArtistProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Bio         string    `json:"bio,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Instruments []string  `json:"instruments,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
