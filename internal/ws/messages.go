// Package ws holds WebSocket message types and the Hub implementation.
// messages.go defines all message structs broadcast to connected clients.
package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/domain"
)

// MsgType identifies the kind of WS message so clients can switch on it.
type MsgType string

const (
	MsgTypeFightScheduled MsgType = "fight_scheduled"
	MsgTypeFightSettled   MsgType = "fight_settled"
	MsgTypeError          MsgType = "error"
)

// ──────────────────────────────────────────────────────────────────────────────
// FightScheduledMessage — broadcast when a new pairing lands on the card.
// ──────────────────────────────────────────────────────────────────────────────

// FightScheduledMessage carries the identity of a freshly scheduled fight.
type FightScheduledMessage struct {
	Type           MsgType   `json:"type"`
	FightID        uuid.UUID `json:"fight_id"`
	EventID        uuid.UUID `json:"event_id"`
	FightNumber    int       `json:"fight_number"`
	ParticipantAID uuid.UUID `json:"participant_a_id"`
	ParticipantBID uuid.UUID `json:"participant_b_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// FightSettledMessage — broadcast when a fight's result is committed.
// ──────────────────────────────────────────────────────────────────────────────

// FightSettledMessage tells clients how a fight ended.  Winner and bet-side
// fields are empty for draw/cancelled outcomes.
type FightSettledMessage struct {
	Type                MsgType          `json:"type"`
	SettlementID        uuid.UUID        `json:"settlement_id"`
	FightID             uuid.UUID        `json:"fight_id"`
	EventID             uuid.UUID        `json:"event_id"`
	Outcome             domain.Outcome   `json:"outcome"`
	WinnerParticipantID *uuid.UUID       `json:"winner_participant_id,omitempty"`
	BetWinner           domain.SideLabel `json:"bet_winner,omitempty"`
	TotalBetPool        decimal.Decimal  `json:"total_bet_pool"`
	TotalPlazada        decimal.Decimal  `json:"total_plazada"`
	Timestamp           time.Time        `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorMessage — sent to a single client on a non-fatal error.
// ──────────────────────────────────────────────────────────────────────────────

// ErrorMessage is sent directly to one client (not broadcast).
type ErrorMessage struct {
	Type    MsgType `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}
