package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// PlazadaRate is the house commission charged against the losing side's
// wager (10 %).  The winning side pays nothing.
var PlazadaRate = decimal.NewFromFloat(0.10)

// MaxMatchTimeSec is the ceiling for a measured match duration.  Durations
// above this are rejected as recording errors.
const MaxMatchTimeSec = 600.0

// SideLabel is the traditional betting side of a fight: Meron backs the
// favourite (higher wager), Wala backs the underdog.
type SideLabel string

const (
	SideMeron SideLabel = "meron"
	SideWala  SideLabel = "wala"
)

// Outcome is the settlement variant tag.  A win carries a WinResult; draw and
// cancelled bypass betting entirely and carry zero money fields.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeDraw      Outcome = "draw"
	OutcomeCancelled Outcome = "cancelled"
)

// IsValid returns true if the outcome is a recognised variant.
func (o Outcome) IsValid() bool {
	return o == OutcomeWin || o == OutcomeDraw || o == OutcomeCancelled
}

// IsSpecial returns true for the variants that skip side assignment, the bet
// pool and the plazada.
func (o Outcome) IsSpecial() bool {
	return o == OutcomeDraw || o == OutcomeCancelled
}

// ──────────────────────────────────────────────────────────────────────────────
// Wagers & side assignment
// ──────────────────────────────────────────────────────────────────────────────

// Wager is one participant's stake in a fight.
type Wager struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// BetSides is the explicit two-slot view of a fight's wagers.  Using named
// fields instead of an unordered pair removes any ordering ambiguity after
// side assignment.
type BetSides struct {
	Meron Wager `json:"meron"`
	Wala  Wager `json:"wala"`
}

// AssignSides labels two wagers: the strictly greater amount becomes Meron.
// On equal amounts the input order is preserved (first wager is Meron), so
// the assignment is deterministic for a given call order.
func AssignSides(first, second Wager) BetSides {
	if second.Amount.GreaterThan(first.Amount) {
		return BetSides{Meron: second, Wala: first}
	}
	return BetSides{Meron: first, Wala: second}
}

// SideOf returns which side the given participant wagered on.
func (b BetSides) SideOf(participantID uuid.UUID) (SideLabel, bool) {
	switch participantID {
	case b.Meron.ParticipantID:
		return SideMeron, true
	case b.Wala.ParticipantID:
		return SideWala, true
	}
	return "", false
}

// WagerFor returns the wager on the given side.
func (b BetSides) WagerFor(side SideLabel) Wager {
	if side == SideMeron {
		return b.Meron
	}
	return b.Wala
}

// Gap is the portion of the Meron stake not matched by the Wala stake.  It is
// covered by outside bettors taking the excess action, so it never goes
// negative: an over-wagered Wala simply means Wala is mislabelled, which
// AssignSides prevents.
func (b BetSides) Gap() decimal.Decimal {
	gap := b.Meron.Amount.Sub(b.Wala.Amount)
	if gap.IsNegative() {
		return decimal.Zero
	}
	return gap
}

// TotalPool is the full pool the house manages for the fight: both principal
// stakes plus the matched outside action covering the imbalance.
//
//	gap       = max(0, meron - wala)
//	totalPool = meron + wala + gap     (= 2 × max(meron, wala))
func (b BetSides) TotalPool() decimal.Decimal {
	return b.Meron.Amount.Add(b.Wala.Amount).Add(b.Gap())
}

// PlazadaFor computes the house commission for a settled fight: rate applied
// to the losing side's wager only.  Call this only after the winning side is
// known.
func (b BetSides) PlazadaFor(betWinner SideLabel, rate decimal.Decimal) decimal.Decimal {
	losing := SideWala
	if betWinner == SideWala {
		losing = SideMeron
	}
	return b.WagerFor(losing).Amount.Mul(rate)
}

// ──────────────────────────────────────────────────────────────────────────────
// MatchSettlement
// ──────────────────────────────────────────────────────────────────────────────

// WinResult is the win-variant payload of a settlement: who won, with which
// cock, on which betting side, and how long the match took.
type WinResult struct {
	WinnerParticipantID uuid.UUID `json:"winner_participant_id"`
	LoserParticipantID  uuid.UUID `json:"loser_participant_id"`
	WinnerCockID        uuid.UUID `json:"winner_cock_id"`
	LoserCockID         uuid.UUID `json:"loser_cock_id"`
	Sides               BetSides  `json:"sides"`
	BetWinner           SideLabel `json:"bet_winner"` // side containing the match winner
	MatchTimeSec        *float64  `json:"match_time_sec,omitempty"`
}

// MatchSettlement is the finalized record of one fight's outcome and betting
// resolution.  Exactly one may exist per fight.  Result is non-nil only for
// OutcomeWin; draw and cancelled settlements always carry zero pool and
// plazada.  Once VerifiedAt is set the record is immutable.
type MatchSettlement struct {
	ID           uuid.UUID       `json:"id"`
	FightID      uuid.UUID       `json:"fight_id"`
	EventID      uuid.UUID       `json:"event_id"`
	Outcome      Outcome         `json:"outcome"`
	Result       *WinResult      `json:"result,omitempty"`
	TotalBetPool decimal.Decimal `json:"total_bet_pool"`
	TotalPlazada decimal.Decimal `json:"total_plazada"`
	VerifiedAt   *time.Time      `json:"verified_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsVerified returns true once an admin has locked the settlement.
func (s *MatchSettlement) IsVerified() bool {
	return s.VerifiedAt != nil
}

// NewWinSettlement builds the win-variant settlement for a fight: assigns
// sides from the two wagers, determines the winning betting side, and fills
// in the pool and plazada figures.  Inputs are assumed validated.
func NewWinSettlement(
	fight *FightSchedule,
	winnerPID, loserPID, winnerCID, loserCID uuid.UUID,
	first, second Wager,
	matchTimeSec *float64,
	plazadaRate decimal.Decimal,
) *MatchSettlement {
	sides := AssignSides(first, second)
	betWinner, _ := sides.SideOf(winnerPID)

	return &MatchSettlement{
		ID:      uuid.New(),
		FightID: fight.ID,
		EventID: fight.EventID,
		Outcome: OutcomeWin,
		Result: &WinResult{
			WinnerParticipantID: winnerPID,
			LoserParticipantID:  loserPID,
			WinnerCockID:        winnerCID,
			LoserCockID:         loserCID,
			Sides:               sides,
			BetWinner:           betWinner,
			MatchTimeSec:        matchTimeSec,
		},
		TotalBetPool: sides.TotalPool(),
		TotalPlazada: sides.PlazadaFor(betWinner, plazadaRate),
		CreatedAt:    time.Now().UTC(),
	}
}

// NewSpecialSettlement builds a draw or cancelled settlement.  All wagering
// fields stay zero and no winner is recorded.
func NewSpecialSettlement(fight *FightSchedule, outcome Outcome) *MatchSettlement {
	return &MatchSettlement{
		ID:           uuid.New(),
		FightID:      fight.ID,
		EventID:      fight.EventID,
		Outcome:      outcome,
		TotalBetPool: decimal.Zero,
		TotalPlazada: decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
}
