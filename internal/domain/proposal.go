package domain

import (
	"github.com/google/uuid"
)

// ──────────────────────────────────────────────────────────────────────────────
// SettleProposal — value object used by SettlementService
// ──────────────────────────────────────────────────────────────────────────────

// SettleProposal carries a caller's proposed result for one fight.  For
// OutcomeWin every winner/loser field and both wagers must be present; for
// draw/cancelled everything except Outcome is ignored.
type SettleProposal struct {
	Outcome             Outcome   `json:"outcome"`
	WinnerParticipantID uuid.UUID `json:"winner_participant_id"`
	LoserParticipantID  uuid.UUID `json:"loser_participant_id"`
	WinnerCockID        uuid.UUID `json:"winner_cock_id"`
	LoserCockID         uuid.UUID `json:"loser_cock_id"`
	Wagers              []Wager   `json:"wagers"`
	MatchTimeSec        *float64  `json:"match_time_sec,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Structural validation (collect-all)
// ──────────────────────────────────────────────────────────────────────────────

// ValidateProposal checks a win proposal against the fight's membership and
// the event's rules.  It is pure: state checks (fight already settled,
// duplicate settlement) are the service's job and surface as sentinel
// conflict errors instead.
//
// Every failed rule produces its own FieldError; the caller receives the full
// list, never just the first problem.
//
// maxMatchTimeSec is the configured duration ceiling; values ≤ 0 fall back to
// MaxMatchTimeSec.
func ValidateProposal(event *DerbyEvent, fight *FightSchedule, p SettleProposal, maxMatchTimeSec float64) ValidationErrors {
	var errs ValidationErrors
	if maxMatchTimeSec <= 0 {
		maxMatchTimeSec = MaxMatchTimeSec
	}

	if !p.Outcome.IsValid() {
		errs.Add("outcome", "must be one of win, draw, cancelled")
		return errs
	}
	if p.Outcome.IsSpecial() {
		// Draw/cancelled bypass every wagering rule.
		return errs
	}

	// ── Participant membership ────────────────────────────────────────────────
	if !fight.HasParticipant(p.WinnerParticipantID) {
		errs.Add("winner_participant_id", "is not a participant of this fight")
	}
	if !fight.HasParticipant(p.LoserParticipantID) {
		errs.Add("loser_participant_id", "is not a participant of this fight")
	}
	if p.WinnerParticipantID == p.LoserParticipantID {
		errs.Add("loser_participant_id", "winner and loser must differ")
	}

	// ── Cock membership ───────────────────────────────────────────────────────
	if !fight.HasCock(p.WinnerCockID) {
		errs.Add("winner_cock_id", "is not a cock of this fight")
	}
	if !fight.HasCock(p.LoserCockID) {
		errs.Add("loser_cock_id", "is not a cock of this fight")
	}
	if p.WinnerCockID == p.LoserCockID {
		errs.Add("loser_cock_id", "winner and loser cocks must differ")
	}

	// ── Wagers: exactly two, one per fight participant, non-negative ──────────
	if len(p.Wagers) != 2 {
		errs.Add("wagers", "exactly two participant wagers are required")
	} else {
		seen := map[uuid.UUID]bool{}
		for i, w := range p.Wagers {
			field := wagerField(i)
			if !fight.HasParticipant(w.ParticipantID) {
				errs.Add(field, "wager participant is not in this fight")
				continue
			}
			if seen[w.ParticipantID] {
				errs.Add(field, "duplicate wager for the same participant")
			}
			seen[w.ParticipantID] = true
			if w.Amount.IsNegative() {
				errs.Add(field, "bet amount must not be negative")
			}
		}
		if len(seen) == 2 && (!seen[fight.ParticipantAID] || !seen[fight.ParticipantBID]) {
			errs.Add("wagers", "both fight participants must have a wager")
		}
	}

	// ── Match duration for timed events ───────────────────────────────────────
	if event.EventType.RequiresMatchTime() {
		switch {
		case p.MatchTimeSec == nil:
			errs.Add("match_time_sec", "a measured match duration is required for this event type")
		case *p.MatchTimeSec < 0:
			errs.Add("match_time_sec", "match duration must not be negative")
		case *p.MatchTimeSec > maxMatchTimeSec:
			errs.Add("match_time_sec", "match duration exceeds the ceiling")
		}
	} else if p.MatchTimeSec != nil && (*p.MatchTimeSec < 0 || *p.MatchTimeSec > maxMatchTimeSec) {
		errs.Add("match_time_sec", "match duration out of range")
	}

	return errs
}

func wagerField(i int) string {
	if i == 0 {
		return "wagers[0]"
	}
	return "wagers[1]"
}
