// Package domain defines the core business entities and types for the
// sabongline derby administration system.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// EventType distinguishes how an event crowns its winners.
type EventType string

const (
	// EventTypeDerby is the classic elimination format: a participant must win
	// NoCockRequirements fights to become champion.
	EventTypeDerby EventType = "derby"

	// EventTypeFastestKill ranks winners by measured match duration, so every
	// settled fight must carry a match time.
	EventTypeFastestKill EventType = "fastest_kill"
)

// IsValid returns true if the event type is recognised.
func (t EventType) IsValid() bool {
	return t == EventTypeDerby || t == EventTypeFastestKill
}

// RequiresMatchTime returns true when settlements for this event type must
// include a measured duration.
func (t EventType) RequiresMatchTime() bool {
	return t == EventTypeFastestKill
}

// EventStatus represents the lifecycle state of a derby event.
type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming" // registration open
	EventStatusOngoing  EventStatus = "ongoing"  // fights in progress
	EventStatusFinished EventStatus = "finished" // all fights settled
)

// ──────────────────────────────────────────────────────────────────────────────
// DerbyEvent
// ──────────────────────────────────────────────────────────────────────────────

// DerbyEvent is a single derby: a set of participants, their registered cocks,
// a fight card, and a prize pool distributed among champions.
type DerbyEvent struct {
	ID                 uuid.UUID       `json:"id"                   db:"id"`
	Name               string          `json:"name"                 db:"name"`
	EventType          EventType       `json:"event_type"           db:"event_type"`
	Status             EventStatus     `json:"status"               db:"status"`
	NoCockRequirements int             `json:"no_cock_requirements" db:"no_cock_requirements"`
	Prize              decimal.Decimal `json:"prize"                db:"prize"`
	EventDate          time.Time       `json:"event_date"           db:"event_date"`
	CreatedAt          time.Time       `json:"created_at"           db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"           db:"updated_at"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Participant & CockProfile
// ──────────────────────────────────────────────────────────────────────────────

// Participant is an entry owner registered in one event.
type Participant struct {
	ID        uuid.UUID `json:"id"         db:"id"`
	EventID   uuid.UUID `json:"event_id"   db:"event_id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CockStatus tracks whether a cock can still be booked into a fight.
type CockStatus string

const (
	CockStatusAvailable CockStatus = "available" // free to be matched
	CockStatusScheduled CockStatus = "scheduled" // committed to a fight
	CockStatusFought    CockStatus = "fought"    // retired from the event
)

// CockProfile is a single registered cock belonging to a participant.
type CockProfile struct {
	ID            uuid.UUID  `json:"id"             db:"id"`
	ParticipantID uuid.UUID  `json:"participant_id" db:"participant_id"`
	EventID       uuid.UUID  `json:"event_id"       db:"event_id"`
	LegBandNo     string     `json:"leg_band_no"    db:"leg_band_no"`
	Weight        *int       `json:"weight"         db:"weight"` // grams
	Status        CockStatus `json:"status"         db:"status"`
	CreatedAt     time.Time  `json:"created_at"     db:"created_at"`
}

// IsAvailable returns true while the cock can still be booked into a fight.
func (c *CockProfile) IsAvailable() bool {
	return c.Status == CockStatusAvailable
}
