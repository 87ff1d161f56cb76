package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func wager(id uuid.UUID, amount string) Wager {
	return Wager{ParticipantID: id, Amount: decimal.RequireFromString(amount)}
}

func testFight() *FightSchedule {
	return &FightSchedule{
		ID:             uuid.New(),
		EventID:        uuid.New(),
		FightNumber:    1,
		ParticipantAID: uuid.New(),
		ParticipantBID: uuid.New(),
		CockAID:        uuid.New(),
		CockBID:        uuid.New(),
		Status:         FightStatusScheduled,
	}
}

// ── AssignSides ───────────────────────────────────────────────────────────────

func TestAssignSides_HigherWagerIsMeron(t *testing.T) {
	a := wager(uuid.New(), "4000")
	b := wager(uuid.New(), "10000")

	sides := AssignSides(a, b)
	if sides.Meron.ParticipantID != b.ParticipantID {
		t.Errorf("Meron should be the higher wager (10000), got %s", sides.Meron.Amount)
	}
	if sides.Wala.ParticipantID != a.ParticipantID {
		t.Errorf("Wala should be the lower wager (4000), got %s", sides.Wala.Amount)
	}
}

func TestAssignSides_TiePreservesInputOrder(t *testing.T) {
	a := wager(uuid.New(), "5000")
	b := wager(uuid.New(), "5000")

	sides := AssignSides(a, b)
	if sides.Meron.ParticipantID != a.ParticipantID {
		t.Error("on equal wagers the first input should be Meron")
	}
	if sides.Wala.ParticipantID != b.ParticipantID {
		t.Error("on equal wagers the second input should be Wala")
	}
}

func TestAssignSides_ZeroWagers(t *testing.T) {
	a := wager(uuid.New(), "0")
	b := wager(uuid.New(), "0")

	sides := AssignSides(a, b)
	if sides.Meron.ParticipantID != a.ParticipantID {
		t.Error("two zero wagers: first input should still be Meron")
	}
	if !sides.TotalPool().IsZero() {
		t.Errorf("pool of two zero wagers = %s, want 0", sides.TotalPool())
	}
}

// ── Gap & TotalPool ───────────────────────────────────────────────────────────

func TestTotalPool_IsTwiceTheMeronWager(t *testing.T) {
	tests := []struct {
		name       string
		meron      string
		wala       string
		wantGap    string
		wantPool   string
		poolDouble string // 2 × max(meron, wala)
	}{
		{"imbalanced", "10000", "4000", "6000", "20000", "20000"},
		{"balanced", "5000", "5000", "0", "10000", "10000"},
		{"tiny imbalance", "100.50", "100.00", "0.50", "201.00", "201.00"},
		{"one side zero", "7500", "0", "7500", "15000", "15000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sides := AssignSides(wager(uuid.New(), tt.meron), wager(uuid.New(), tt.wala))

			if got := sides.Gap(); !got.Equal(decimal.RequireFromString(tt.wantGap)) {
				t.Errorf("Gap() = %s, want %s", got, tt.wantGap)
			}
			if got := sides.TotalPool(); !got.Equal(decimal.RequireFromString(tt.wantPool)) {
				t.Errorf("TotalPool() = %s, want %s", got, tt.wantPool)
			}
			// The identity: totalPool = 2 × max(meron, wala).
			double := sides.Meron.Amount.Mul(decimal.NewFromInt(2))
			if !sides.TotalPool().Equal(double) {
				t.Errorf("TotalPool() = %s, want 2×Meron = %s", sides.TotalPool(), double)
			}
		})
	}
}

// ── PlazadaFor ────────────────────────────────────────────────────────────────

func TestPlazadaFor_ChargesLosingSideOnly(t *testing.T) {
	meronP, walaP := uuid.New(), uuid.New()
	sides := AssignSides(wager(meronP, "10000"), wager(walaP, "4000"))
	rate := decimal.NewFromFloat(0.10)

	// Wala wins → Meron (10000) loses → plazada 1000.
	if got := sides.PlazadaFor(SideWala, rate); !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("plazada on Wala win = %s, want 1000", got)
	}
	// Meron wins → Wala (4000) loses → plazada 400.
	if got := sides.PlazadaFor(SideMeron, rate); !got.Equal(decimal.NewFromInt(400)) {
		t.Errorf("plazada on Meron win = %s, want 400", got)
	}
}

// ── NewWinSettlement ──────────────────────────────────────────────────────────

func TestNewWinSettlement_WorkedExample(t *testing.T) {
	fight := testFight()
	winnerP, loserP := fight.ParticipantAID, fight.ParticipantBID
	rate := decimal.NewFromFloat(0.10)

	// Winner wagered 4000 (Wala side), loser wagered 10000 (Meron side).
	s := NewWinSettlement(
		fight,
		winnerP, loserP,
		fight.CockAID, fight.CockBID,
		wager(loserP, "10000"), wager(winnerP, "4000"),
		nil,
		rate,
	)

	if s.Outcome != OutcomeWin {
		t.Fatalf("outcome = %s, want win", s.Outcome)
	}
	if s.Result == nil {
		t.Fatal("win settlement must carry a Result")
	}
	if s.Result.BetWinner != SideWala {
		t.Errorf("bet winner = %s, want wala (winner wagered less)", s.Result.BetWinner)
	}
	if !s.TotalBetPool.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("pool = %s, want 20000", s.TotalBetPool)
	}
	// Losing side (Meron) wagered 10000 → plazada 1000.
	if !s.TotalPlazada.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("plazada = %s, want 1000", s.TotalPlazada)
	}
	if s.IsVerified() {
		t.Error("fresh settlement must not be verified")
	}
}

func TestNewWinSettlement_WinnerOnMeron(t *testing.T) {
	fight := testFight()
	winnerP, loserP := fight.ParticipantAID, fight.ParticipantBID

	s := NewWinSettlement(
		fight,
		winnerP, loserP,
		fight.CockAID, fight.CockBID,
		wager(winnerP, "8000"), wager(loserP, "3000"),
		nil,
		decimal.NewFromFloat(0.10),
	)

	if s.Result.BetWinner != SideMeron {
		t.Errorf("bet winner = %s, want meron", s.Result.BetWinner)
	}
	if !s.TotalBetPool.Equal(decimal.NewFromInt(16000)) {
		t.Errorf("pool = %s, want 16000", s.TotalBetPool)
	}
	if !s.TotalPlazada.Equal(decimal.NewFromInt(300)) {
		t.Errorf("plazada = %s, want 300 (10%% of losing 3000)", s.TotalPlazada)
	}
}

// ── Special outcomes ──────────────────────────────────────────────────────────

func TestNewSpecialSettlement_ZeroMoneyFields(t *testing.T) {
	fight := testFight()
	for _, outcome := range []Outcome{OutcomeDraw, OutcomeCancelled} {
		s := NewSpecialSettlement(fight, outcome)

		if s.Outcome != outcome {
			t.Errorf("outcome = %s, want %s", s.Outcome, outcome)
		}
		if s.Result != nil {
			t.Errorf("%s settlement must not carry a win result", outcome)
		}
		if !s.TotalBetPool.IsZero() || !s.TotalPlazada.IsZero() {
			t.Errorf("%s settlement pool/plazada = %s/%s, want 0/0",
				outcome, s.TotalBetPool, s.TotalPlazada)
		}
	}
}

func TestOutcome_Predicates(t *testing.T) {
	if !OutcomeWin.IsValid() || !OutcomeDraw.IsValid() || !OutcomeCancelled.IsValid() {
		t.Error("all three outcomes should be valid")
	}
	if Outcome("knockout").IsValid() {
		t.Error("unknown outcome should be invalid")
	}
	if OutcomeWin.IsSpecial() {
		t.Error("win is not a special outcome")
	}
	if !OutcomeDraw.IsSpecial() || !OutcomeCancelled.IsSpecial() {
		t.Error("draw and cancelled are special outcomes")
	}
}
