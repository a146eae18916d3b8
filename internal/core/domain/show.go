package domain

import (
	"errors"
	"time"
)

// ShowStatus represents the lifecycle state of a show listing.
type ShowStatus string

const (
	ShowDraft     ShowStatus = "draft"
	ShowAnnounced ShowStatus = "announced"
	ShowCancelled ShowStatus = "cancelled"
	ShowCompleted ShowStatus = "completed"
)

// validShowTransitions defines the allowed state machine transitions.
var validShowTransitions = map[ShowStatus][]ShowStatus{
	ShowDraft:     {ShowAnnounced, ShowCancelled},
	ShowAnnounced: {ShowCancelled, ShowCompleted},
}

var ErrShowNotFound = errors.New("show not found")
var ErrVenueNotFound = errors.New("venue not found")
var ErrInvalidTransition = errors.New("invalid show status transition")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ShowStatus) CanTransitionTo(next ShowStatus) bool {
	for _, allowed := range validShowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Venue is a physical location that hosts shows.
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Capacity  int       `json:"capacity"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Show is a scheduled performance at a venue.
type Show struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	VenueID     string     `json:"venue_id"`
	PromoterID  string     `json:"promoter_id"`
	ArtistIDs   []string   `json:"artist_ids"`
	StartsAt    time.Time  `json:"starts_at"`
	DoorPrice   float64    `json:"door_price"`
	Currency    string     `json:"currency"`
	Status      ShowStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
