package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func beginTx(t *testing.T, db *sqlx.DB, mock sqlmock.Sqlmock) *sqlx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	return tx
}

func drawSettlement() *domain.MatchSettlement {
	return &domain.MatchSettlement{
		ID:           uuid.New(),
		FightID:      uuid.New(),
		EventID:      uuid.New(),
		Outcome:      domain.OutcomeDraw,
		TotalBetPool: decimal.Zero,
		TotalPlazada: decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
}

// ── Create — unique index on fight_id ─────────────────────────────────────────

func TestCreate_UniqueViolationMapsToSettlementExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`INSERT INTO settlements`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), tx, drawSettlement())
	if !errors.Is(err, domain.ErrSettlementExists) {
		t.Fatalf("duplicate insert error = %v, want ErrSettlementExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_OtherErrorsPassThrough(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`INSERT INTO settlements`).
		WillReturnError(&pq.Error{Code: "23503"}) // foreign_key_violation

	err := repo.Create(context.Background(), tx, drawSettlement())
	if err == nil || errors.Is(err, domain.ErrSettlementExists) {
		t.Fatalf("non-unique violation error = %v, want a wrapped error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// ── Delete — verified_at IS NULL guard ────────────────────────────────────────

func TestDelete_VerifiedSettlementIsImmutable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	tx := beginTx(t, db, mock)
	id := uuid.New()

	// The conditional delete matches nothing, and the row turns out to exist:
	// the settlement is verified.
	mock.ExpectExec(`DELETE FROM settlements WHERE id = \$1 AND verified_at IS NULL`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Delete(context.Background(), tx, id)
	if !errors.Is(err, domain.ErrSettlementVerified) {
		t.Fatalf("delete of verified settlement error = %v, want ErrSettlementVerified", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_MissingSettlement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	tx := beginTx(t, db, mock)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM settlements WHERE id = \$1 AND verified_at IS NULL`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Delete(context.Background(), tx, id)
	if !errors.Is(err, domain.ErrSettlementNotFound) {
		t.Fatalf("delete of missing settlement error = %v, want ErrSettlementNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_UnverifiedSettlement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	tx := beginTx(t, db, mock)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM settlements WHERE id = \$1 AND verified_at IS NULL`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), tx, id); err != nil {
		t.Fatalf("delete of unverified settlement failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// ── Verify — idempotent one-way lock ──────────────────────────────────────────

func TestVerify_StampsOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	id := uuid.New()

	// COALESCE keeps the first timestamp; re-verifying still matches the row.
	mock.ExpectExec(`UPDATE settlements\s+SET verified_at = COALESCE\(verified_at, now\(\)\)`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Verify(context.Background(), id); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestVerify_MissingSettlement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettlementRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE settlements\s+SET verified_at = COALESCE\(verified_at, now\(\)\)`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Verify(context.Background(), id)
	if !errors.Is(err, domain.ErrSettlementNotFound) {
		t.Fatalf("verify of missing settlement error = %v, want ErrSettlementNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
