package domain

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// FightStatus represents the lifecycle state of a scheduled fight.
type FightStatus string

const (
	FightStatusScheduled  FightStatus = "scheduled"   // paired, waiting for the pit
	FightStatusInProgress FightStatus = "in_progress" // currently in the pit
	FightStatusCompleted  FightStatus = "completed"   // settled (win or draw)
	FightStatusCancelled  FightStatus = "cancelled"   // called off; cocks released
)

// ──────────────────────────────────────────────────────────────────────────────
// FightSchedule
// ──────────────────────────────────────────────────────────────────────────────

// FightSchedule pairs two participants and their cocks for one fight of an
// event.  FightNumber is sequential and unique per event; it is allocated by
// the scheduling transaction, never by an in-memory counter.
type FightSchedule struct {
	ID             uuid.UUID   `json:"id"               db:"id"`
	EventID        uuid.UUID   `json:"event_id"         db:"event_id"`
	FightNumber    int         `json:"fight_number"     db:"fight_number"`
	ParticipantAID uuid.UUID   `json:"participant_a_id" db:"participant_a_id"`
	ParticipantBID uuid.UUID   `json:"participant_b_id" db:"participant_b_id"`
	CockAID        uuid.UUID   `json:"cock_a_id"        db:"cock_a_id"`
	CockBID        uuid.UUID   `json:"cock_b_id"        db:"cock_b_id"`
	Status         FightStatus `json:"status"           db:"status"`
	CreatedAt      time.Time   `json:"created_at"       db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"       db:"updated_at"`
}

// HasParticipant reports whether id is one of the fight's two participants.
func (f *FightSchedule) HasParticipant(id uuid.UUID) bool {
	return id == f.ParticipantAID || id == f.ParticipantBID
}

// HasCock reports whether id is one of the fight's two cocks.
func (f *FightSchedule) HasCock(id uuid.UUID) bool {
	return id == f.CockAID || id == f.CockBID
}

// OtherParticipant returns the opponent of id, or uuid.Nil if id is not in
// the fight.
func (f *FightSchedule) OtherParticipant(id uuid.UUID) uuid.UUID {
	switch id {
	case f.ParticipantAID:
		return f.ParticipantBID
	case f.ParticipantBID:
		return f.ParticipantAID
	}
	return uuid.Nil
}

// IsSettleable returns true while the fight may still receive a settlement.
func (f *FightSchedule) IsSettleable() bool {
	return f.Status == FightStatusScheduled || f.Status == FightStatusInProgress
}

// CockIDs returns both cock references as a slice, for batch status updates.
func (f *FightSchedule) CockIDs() []uuid.UUID {
	return []uuid.UUID{f.CockAID, f.CockBID}
}
