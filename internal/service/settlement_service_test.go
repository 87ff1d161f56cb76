package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
	"github.com/sabongline/derby/internal/service"
)

// ── mock plumbing ─────────────────────────────────────────────────────────────

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func newSettlementService(db *sqlx.DB) *service.SettlementService {
	cfg := &config.Config{
		Derby: config.DerbyConfig{PlazadaRate: 0.10, MaxMatchTimeSec: 600, DefaultCocksReq: 3},
	}
	return service.NewSettlementService(
		db,
		repository.NewEventRepository(db),
		repository.NewFightRepository(db),
		repository.NewCockRepository(db),
		repository.NewSettlementRepository(db),
		cfg,
	)
}

var fightColumns = []string{
	"id", "event_id", "fight_number",
	"participant_a_id", "participant_b_id", "cock_a_id", "cock_b_id",
	"status", "created_at", "updated_at",
}

var settlementColumns = []string{
	"id", "fight_id", "event_id", "outcome",
	"winner_participant_id", "loser_participant_id", "winner_cock_id", "loser_cock_id",
	"meron_participant_id", "meron_amount", "wala_participant_id", "wala_amount",
	"bet_winner", "match_time_sec", "total_bet_pool", "total_plazada",
	"verified_at", "created_at",
}

type fixture struct {
	fightID, eventID               uuid.UUID
	participantAID, participantBID uuid.UUID
	cockAID, cockBID               uuid.UUID
	settlementID                   uuid.UUID
}

func wagerOf(id uuid.UUID, amount int64) domain.Wager {
	return domain.Wager{ParticipantID: id, Amount: decimal.NewFromInt(amount)}
}

func newFixture() fixture {
	return fixture{
		fightID:        uuid.New(),
		eventID:        uuid.New(),
		participantAID: uuid.New(),
		participantBID: uuid.New(),
		cockAID:        uuid.New(),
		cockBID:        uuid.New(),
		settlementID:   uuid.New(),
	}
}

func (f fixture) fightRow(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(fightColumns).AddRow(
		f.fightID.String(), f.eventID.String(), 1,
		f.participantAID.String(), f.participantBID.String(),
		f.cockAID.String(), f.cockBID.String(),
		status, now, now,
	)
}

// settlementRowValues returns a win-outcome settlement row; verifiedAt nil
// means unverified.
func (f fixture) winSettlementRow(verifiedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(settlementColumns).AddRow(
		f.settlementID.String(), f.fightID.String(), f.eventID.String(), "win",
		f.participantAID.String(), f.participantBID.String(),
		f.cockAID.String(), f.cockBID.String(),
		f.participantAID.String(), "10000", f.participantBID.String(), "4000",
		"meron", nil, "20000", "400",
		verifiedAt, time.Now().UTC(),
	)
}

func (f fixture) cancelledSettlementRow() *sqlmock.Rows {
	return sqlmock.NewRows(settlementColumns).AddRow(
		f.settlementID.String(), f.fightID.String(), f.eventID.String(), "cancelled",
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, "0", "0",
		nil, time.Now().UTC(),
	)
}

func (f fixture) winProposal() domain.SettleProposal {
	return domain.SettleProposal{
		Outcome:             domain.OutcomeWin,
		WinnerParticipantID: f.participantAID,
		LoserParticipantID:  f.participantBID,
		WinnerCockID:        f.cockAID,
		LoserCockID:         f.cockBID,
		Wagers: []domain.Wager{
			wagerOf(f.participantAID, 10000),
			wagerOf(f.participantBID, 4000),
		},
	}
}

// ── Settle guards ─────────────────────────────────────────────────────────────

func TestSettle_DuplicateSettlementRejected(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newSettlementService(db)
	fx := newFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM fights WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.fightID).
		WillReturnRows(fx.fightRow("scheduled"))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(fx.fightID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Settle(context.Background(), fx.fightID, fx.winProposal())
	if !errors.Is(err, domain.ErrSettlementExists) {
		t.Fatalf("duplicate settle error = %v, want ErrSettlementExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSettle_CompletedFightRejected(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newSettlementService(db)
	fx := newFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM fights WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.fightID).
		WillReturnRows(fx.fightRow("completed"))
	mock.ExpectRollback()

	_, err := svc.Settle(context.Background(), fx.fightID, fx.winProposal())
	if !errors.Is(err, domain.ErrFightNotSettleable) {
		t.Fatalf("settle on completed fight error = %v, want ErrFightNotSettleable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// ── Revert guards ─────────────────────────────────────────────────────────────

func TestRevert_VerifiedSettlementRejected(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newSettlementService(db)
	fx := newFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM settlements WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.settlementID).
		WillReturnRows(fx.winSettlementRow(time.Now().UTC()))
	mock.ExpectRollback()

	err := svc.Revert(context.Background(), fx.settlementID)
	if !errors.Is(err, domain.ErrSettlementVerified) {
		t.Fatalf("revert of verified settlement error = %v, want ErrSettlementVerified", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRevert_CancelledSettlementRejected(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newSettlementService(db)
	fx := newFixture()

	// Cancellation released the cocks; they may be booked into other fights
	// by now, so there is no state to restore and the revert must refuse.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM settlements WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.settlementID).
		WillReturnRows(fx.cancelledSettlementRow())
	mock.ExpectRollback()

	err := svc.Revert(context.Background(), fx.settlementID)
	if !errors.Is(err, domain.ErrSettlementNotRevertible) {
		t.Fatalf("revert of cancelled settlement error = %v, want ErrSettlementNotRevertible", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// ── Revert happy path ─────────────────────────────────────────────────────────

func TestRevert_RestoresFightAndCocks(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newSettlementService(db)
	fx := newFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM settlements WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.settlementID).
		WillReturnRows(fx.winSettlementRow(nil))
	mock.ExpectExec(`DELETE FROM settlements WHERE id = \$1 AND verified_at IS NULL`).
		WithArgs(fx.settlementID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM fights WHERE id = \$1 FOR UPDATE`).
		WithArgs(fx.fightID).
		WillReturnRows(fx.fightRow("completed"))
	mock.ExpectExec(`UPDATE fights SET status`).
		WithArgs("scheduled", fx.fightID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cocks SET status`).
		WithArgs("available", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := svc.Revert(context.Background(), fx.settlementID); err != nil {
		t.Fatalf("revert of unverified win settlement failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
