package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/domain"
)

// SettlementRepository handles all database operations for match settlements.
// The settlements table carries a UNIQUE index on fight_id, which is the
// hard guarantee behind the at-most-one-settlement-per-fight invariant.
type SettlementRepository struct {
	db *sqlx.DB
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// ──────────────────────────────────────────────────────────────────────────────
// Row mapping
//
// The domain keeps the win payload as a tagged-union pointer; the table keeps
// a flat row with nullable columns for the win-only fields.
// ──────────────────────────────────────────────────────────────────────────────

type settlementRow struct {
	ID                  uuid.UUID        `db:"id"`
	FightID             uuid.UUID        `db:"fight_id"`
	EventID             uuid.UUID        `db:"event_id"`
	Outcome             string           `db:"outcome"`
	WinnerParticipantID *uuid.UUID       `db:"winner_participant_id"`
	LoserParticipantID  *uuid.UUID       `db:"loser_participant_id"`
	WinnerCockID        *uuid.UUID       `db:"winner_cock_id"`
	LoserCockID         *uuid.UUID       `db:"loser_cock_id"`
	MeronParticipantID  *uuid.UUID       `db:"meron_participant_id"`
	MeronAmount         *decimal.Decimal `db:"meron_amount"`
	WalaParticipantID   *uuid.UUID       `db:"wala_participant_id"`
	WalaAmount          *decimal.Decimal `db:"wala_amount"`
	BetWinner           *string          `db:"bet_winner"`
	MatchTimeSec        *float64         `db:"match_time_sec"`
	TotalBetPool        decimal.Decimal  `db:"total_bet_pool"`
	TotalPlazada        decimal.Decimal  `db:"total_plazada"`
	VerifiedAt          *time.Time       `db:"verified_at"`
	CreatedAt           time.Time        `db:"created_at"`
}

func toRow(s *domain.MatchSettlement) *settlementRow {
	row := &settlementRow{
		ID:           s.ID,
		FightID:      s.FightID,
		EventID:      s.EventID,
		Outcome:      string(s.Outcome),
		TotalBetPool: s.TotalBetPool,
		TotalPlazada: s.TotalPlazada,
		VerifiedAt:   s.VerifiedAt,
		CreatedAt:    s.CreatedAt,
	}
	if r := s.Result; r != nil {
		betWinner := string(r.BetWinner)
		row.WinnerParticipantID = &r.WinnerParticipantID
		row.LoserParticipantID = &r.LoserParticipantID
		row.WinnerCockID = &r.WinnerCockID
		row.LoserCockID = &r.LoserCockID
		row.MeronParticipantID = &r.Sides.Meron.ParticipantID
		row.MeronAmount = &r.Sides.Meron.Amount
		row.WalaParticipantID = &r.Sides.Wala.ParticipantID
		row.WalaAmount = &r.Sides.Wala.Amount
		row.BetWinner = &betWinner
		row.MatchTimeSec = r.MatchTimeSec
	}
	return row
}

func (row *settlementRow) toDomain() *domain.MatchSettlement {
	s := &domain.MatchSettlement{
		ID:           row.ID,
		FightID:      row.FightID,
		EventID:      row.EventID,
		Outcome:      domain.Outcome(row.Outcome),
		TotalBetPool: row.TotalBetPool,
		TotalPlazada: row.TotalPlazada,
		VerifiedAt:   row.VerifiedAt,
		CreatedAt:    row.CreatedAt,
	}
	if s.Outcome == domain.OutcomeWin && row.WinnerParticipantID != nil {
		s.Result = &domain.WinResult{
			WinnerParticipantID: *row.WinnerParticipantID,
			LoserParticipantID:  *row.LoserParticipantID,
			WinnerCockID:        *row.WinnerCockID,
			LoserCockID:         *row.LoserCockID,
			Sides: domain.BetSides{
				Meron: domain.Wager{ParticipantID: *row.MeronParticipantID, Amount: *row.MeronAmount},
				Wala:  domain.Wager{ParticipantID: *row.WalaParticipantID, Amount: *row.WalaAmount},
			},
			BetWinner:    domain.SideLabel(derefStr(row.BetWinner)),
			MatchTimeSec: row.MatchTimeSec,
		}
	}
	return s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ──────────────────────────────────────────────────────────────────────────────
// Writes
// ──────────────────────────────────────────────────────────────────────────────

// Create inserts a settlement inside an existing transaction.  A unique
// violation on fight_id maps to ErrSettlementExists, so a concurrent
// duplicate settle fails cleanly instead of overwriting.
func (r *SettlementRepository) Create(ctx context.Context, tx *sqlx.Tx, s *domain.MatchSettlement) error {
	query := `
		INSERT INTO settlements
			(id, fight_id, event_id, outcome,
			 winner_participant_id, loser_participant_id, winner_cock_id, loser_cock_id,
			 meron_participant_id, meron_amount, wala_participant_id, wala_amount,
			 bet_winner, match_time_sec, total_bet_pool, total_plazada, verified_at, created_at)
		VALUES
			(:id, :fight_id, :event_id, :outcome,
			 :winner_participant_id, :loser_participant_id, :winner_cock_id, :loser_cock_id,
			 :meron_participant_id, :meron_amount, :wala_participant_id, :wala_amount,
			 :bet_winner, :match_time_sec, :total_bet_pool, :total_plazada, :verified_at, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, toRow(s)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return domain.ErrSettlementExists
		}
		return fmt.Errorf("settlement_repo.Create: %w", err)
	}
	return nil
}

// Verify stamps verified_at once.  Idempotent: re-verifying an already
// verified settlement is a no-op that still succeeds.
func (r *SettlementRepository) Verify(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE settlements
		SET verified_at = COALESCE(verified_at, now())
		WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("settlement_repo.Verify: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSettlementNotFound
	}
	return nil
}

// Delete removes an unverified settlement inside tx.  Returns
// ErrSettlementVerified when the row exists but is locked by verification.
func (r *SettlementRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM settlements WHERE id = $1 AND verified_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("settlement_repo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "verified" from "gone".
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM settlements WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("settlement_repo.Delete check: %w", err)
		}
		if exists {
			return domain.ErrSettlementVerified
		}
		return domain.ErrSettlementNotFound
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────────────────────────────────

// GetByID fetches a settlement by its primary key.
func (r *SettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchSettlement, error) {
	var row settlementRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM settlements WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("settlement_repo.GetByID: %w", err)
	}
	return row.toDomain(), nil
}

// GetByIDForUpdate fetches a settlement under a row lock inside tx, so revert
// and verify cannot interleave.
func (r *SettlementRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.MatchSettlement, error) {
	var row settlementRow
	err := tx.GetContext(ctx, &row, `SELECT * FROM settlements WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("settlement_repo.GetByIDForUpdate: %w", err)
	}
	return row.toDomain(), nil
}

// GetByFightID fetches the settlement of a fight, if any.
func (r *SettlementRepository) GetByFightID(ctx context.Context, fightID uuid.UUID) (*domain.MatchSettlement, error) {
	var row settlementRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM settlements WHERE fight_id = $1`, fightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("settlement_repo.GetByFightID: %w", err)
	}
	return row.toDomain(), nil
}

// ExistsForFight reports whether a fight already has a settlement.  Runs
// inside tx so the settle transaction's check-then-insert is consistent with
// the fight row lock it holds.
func (r *SettlementRepository) ExistsForFight(ctx context.Context, tx *sqlx.Tx, fightID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM settlements WHERE fight_id = $1)`, fightID)
	if err != nil {
		return false, fmt.Errorf("settlement_repo.ExistsForFight: %w", err)
	}
	return exists, nil
}

// ListByEvent returns every settlement of an event in fight order.
func (r *SettlementRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.MatchSettlement, error) {
	var rows []*settlementRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.* FROM settlements s
		JOIN fights f ON f.id = s.fight_id
		WHERE s.event_id = $1
		ORDER BY f.fight_number ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("settlement_repo.ListByEvent: %w", err)
	}
	out := make([]*domain.MatchSettlement, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
