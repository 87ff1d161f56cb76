package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sabongline/derby/internal/domain"
)

// CockRepository handles all database operations for cock profiles.  The
// settlement engine is the sole writer of the "fought" status; scheduling
// owns the available/scheduled transitions.
type CockRepository struct {
	db *sqlx.DB
}

// NewCockRepository creates a new CockRepository.
func NewCockRepository(db *sqlx.DB) *CockRepository {
	return &CockRepository{db: db}
}

// Create registers a cock profile.
func (r *CockRepository) Create(ctx context.Context, c *domain.CockProfile) error {
	query := `
		INSERT INTO cocks
			(id, participant_id, event_id, leg_band_no, weight, status, created_at)
		VALUES
			(:id, :participant_id, :event_id, :leg_band_no, :weight, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("cock_repo.Create: %w", err)
	}
	return nil
}

// GetByID fetches a cock profile by its primary key.
func (r *CockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CockProfile, error) {
	var c domain.CockProfile
	err := r.db.GetContext(ctx, &c, `SELECT * FROM cocks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCockNotFound
		}
		return nil, fmt.Errorf("cock_repo.GetByID: %w", err)
	}
	return &c, nil
}

// ListByParticipant returns every cock a participant registered.
func (r *CockRepository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*domain.CockProfile, error) {
	var cocks []*domain.CockProfile
	err := r.db.SelectContext(ctx, &cocks,
		`SELECT * FROM cocks WHERE participant_id = $1 ORDER BY created_at ASC`,
		participantID)
	if err != nil {
		return nil, fmt.Errorf("cock_repo.ListByParticipant: %w", err)
	}
	return cocks, nil
}

// ClaimForFight locks a cock row and atomically flips it from available to
// scheduled inside tx.  Returns ErrCockUnavailable when the cock is missing
// or already committed elsewhere, so two concurrent pairings can never book
// the same cock.
func (r *CockRepository) ClaimForFight(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE cocks
		SET status = 'scheduled'
		WHERE id = $1 AND status = 'available'`,
		id)
	if err != nil {
		return fmt.Errorf("cock_repo.ClaimForFight: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCockUnavailable
	}
	return nil
}

// UpdateStatusBatch sets the status of every listed cock inside tx.  Used by
// settlement (→ fought) and by cancellation and revert (→ available).
func (r *CockRepository) UpdateStatusBatch(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, status domain.CockStatus) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE cocks SET status = $1 WHERE id = ANY($2)`,
		string(status), pq.Array(ids))
	if err != nil {
		return fmt.Errorf("cock_repo.UpdateStatusBatch: %w", err)
	}
	return nil
}
