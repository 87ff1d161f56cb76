package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func derbyEvent(eventType EventType) *DerbyEvent {
	return &DerbyEvent{
		ID:                 uuid.New(),
		Name:               "test derby",
		EventType:          eventType,
		Status:             EventStatusOngoing,
		NoCockRequirements: 3,
		Prize:              decimal.NewFromInt(100000),
	}
}

func validWinProposal(f *FightSchedule) SettleProposal {
	return SettleProposal{
		Outcome:             OutcomeWin,
		WinnerParticipantID: f.ParticipantAID,
		LoserParticipantID:  f.ParticipantBID,
		WinnerCockID:        f.CockAID,
		LoserCockID:         f.CockBID,
		Wagers: []Wager{
			wager(f.ParticipantAID, "10000"),
			wager(f.ParticipantBID, "4000"),
		},
	}
}

func fieldSet(errs ValidationErrors) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, e := range errs {
		out[e.Field] = true
	}
	return out
}

// ── happy paths ───────────────────────────────────────────────────────────────

func TestValidateProposal_ValidWin(t *testing.T) {
	fight := testFight()
	errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, validWinProposal(fight), 600)
	if errs.HasErrors() {
		t.Errorf("valid win proposal should pass, got: %v", errs)
	}
}

func TestValidateProposal_SpecialOutcomeSkipsWageringRules(t *testing.T) {
	fight := testFight()
	for _, outcome := range []Outcome{OutcomeDraw, OutcomeCancelled} {
		// Everything else is garbage — special outcomes must not care.
		p := SettleProposal{Outcome: outcome, WinnerParticipantID: uuid.New()}
		if errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600); errs.HasErrors() {
			t.Errorf("%s proposal should pass without wagering fields, got: %v", outcome, errs)
		}
	}
}

// ── collect-all behaviour ─────────────────────────────────────────────────────

func TestValidateProposal_UnknownOutcome(t *testing.T) {
	fight := testFight()
	errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, SettleProposal{Outcome: "knockout"}, 600)
	if len(errs) != 1 || errs[0].Field != "outcome" {
		t.Errorf("unknown outcome should fail on the outcome field alone, got: %v", errs)
	}
}

func TestValidateProposal_CollectsEveryFailure(t *testing.T) {
	fight := testFight()
	stranger := uuid.New()

	p := SettleProposal{
		Outcome:             OutcomeWin,
		WinnerParticipantID: stranger,   // not in the fight
		LoserParticipantID:  stranger,   // not in the fight AND same as winner
		WinnerCockID:        uuid.New(), // not a fight cock
		LoserCockID:         uuid.New(), // not a fight cock
		Wagers:              []Wager{wager(fight.ParticipantAID, "100")},
	}
	errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600)

	fields := fieldSet(errs)
	for _, want := range []string{
		"winner_participant_id", "loser_participant_id",
		"winner_cock_id", "loser_cock_id", "wagers",
	} {
		if !fields[want] {
			t.Errorf("expected a failure on %q, got: %v", want, errs)
		}
	}
	if len(errs) < 5 {
		t.Errorf("expected every failed rule listed, got only %d: %v", len(errs), errs)
	}
	// The error message should mention multiple problems, not just the first.
	if msg := errs.Error(); !strings.Contains(msg, ";") && len(errs) > 1 {
		t.Errorf("ValidationErrors.Error() should join all failures, got %q", msg)
	}
}

func TestValidateProposal_WagerRules(t *testing.T) {
	fight := testFight()

	t.Run("wrong count", func(t *testing.T) {
		p := validWinProposal(fight)
		p.Wagers = p.Wagers[:1]
		errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600)
		if !fieldSet(errs)["wagers"] {
			t.Errorf("one wager should fail, got: %v", errs)
		}
	})

	t.Run("duplicate participant", func(t *testing.T) {
		p := validWinProposal(fight)
		p.Wagers[1].ParticipantID = p.Wagers[0].ParticipantID
		errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600)
		if !errs.HasErrors() {
			t.Error("two wagers by the same participant should fail")
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		p := validWinProposal(fight)
		p.Wagers[0].Amount = decimal.NewFromInt(-1)
		errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600)
		if !fieldSet(errs)["wagers[0]"] {
			t.Errorf("negative wager should fail on wagers[0], got: %v", errs)
		}
	})

	t.Run("outsider wager", func(t *testing.T) {
		p := validWinProposal(fight)
		p.Wagers[1].ParticipantID = uuid.New()
		errs := ValidateProposal(derbyEvent(EventTypeDerby), fight, p, 600)
		if !errs.HasErrors() {
			t.Error("a wager by a non-participant should fail")
		}
	})
}

// ── match duration rules ──────────────────────────────────────────────────────

func TestValidateProposal_FastestKillRequiresDuration(t *testing.T) {
	fight := testFight()
	event := derbyEvent(EventTypeFastestKill)

	p := validWinProposal(fight) // no MatchTimeSec
	errs := ValidateProposal(event, fight, p, 600)
	if !fieldSet(errs)["match_time_sec"] {
		t.Errorf("fastest_kill without duration should fail, got: %v", errs)
	}

	sec := 42.5
	p.MatchTimeSec = &sec
	if errs := ValidateProposal(event, fight, p, 600); errs.HasErrors() {
		t.Errorf("fastest_kill with a duration should pass, got: %v", errs)
	}
}

func TestValidateProposal_DurationBounds(t *testing.T) {
	fight := testFight()
	event := derbyEvent(EventTypeFastestKill)

	tests := []struct {
		name    string
		sec     float64
		ceiling float64
		wantErr bool
	}{
		{"negative", -1, 600, true},
		{"zero is instant kill", 0, 600, false},
		{"at ceiling", 600, 600, false},
		{"above ceiling", 600.1, 600, true},
		{"custom ceiling", 120, 90, true},
		{"zero ceiling falls back to default", 599, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validWinProposal(fight)
			p.MatchTimeSec = &tt.sec
			errs := ValidateProposal(event, fight, p, tt.ceiling)
			if got := fieldSet(errs)["match_time_sec"]; got != tt.wantErr {
				t.Errorf("duration %.1f (ceiling %.1f): error = %v, want %v — %v",
					tt.sec, tt.ceiling, got, tt.wantErr, errs)
			}
		})
	}
}

func TestValidateProposal_DerbyDurationOptionalButBounded(t *testing.T) {
	fight := testFight()
	event := derbyEvent(EventTypeDerby)

	// Omitted: fine.
	if errs := ValidateProposal(event, fight, validWinProposal(fight), 600); errs.HasErrors() {
		t.Errorf("derby without duration should pass, got: %v", errs)
	}

	// Present but absurd: still rejected.
	sec := 10000.0
	p := validWinProposal(fight)
	p.MatchTimeSec = &sec
	if errs := ValidateProposal(event, fight, p, 600); !fieldSet(errs)["match_time_sec"] {
		t.Errorf("derby with out-of-range duration should fail, got: %v", errs)
	}
}
