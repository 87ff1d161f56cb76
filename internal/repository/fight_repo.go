package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sabongline/derby/internal/domain"
)

// FightRepository handles all database operations for fight schedules.
type FightRepository struct {
	db *sqlx.DB
}

// NewFightRepository creates a new FightRepository.
func NewFightRepository(db *sqlx.DB) *FightRepository {
	return &FightRepository{db: db}
}

// NextFightNumber returns the next sequential fight number for the event.
// Must be called inside tx after EventRepository.LockForScheduling so that
// concurrent inserts cannot draw the same number.
func (r *FightRepository) NextFightNumber(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) (int, error) {
	var next int
	err := tx.GetContext(ctx, &next,
		`SELECT COALESCE(MAX(fight_number), 0) + 1 FROM fights WHERE event_id = $1`,
		eventID)
	if err != nil {
		return 0, fmt.Errorf("fight_repo.NextFightNumber: %w", err)
	}
	return next, nil
}

// Create inserts a new fight inside an existing transaction.
func (r *FightRepository) Create(ctx context.Context, tx *sqlx.Tx, f *domain.FightSchedule) error {
	query := `
		INSERT INTO fights
			(id, event_id, fight_number, participant_a_id, participant_b_id,
			 cock_a_id, cock_b_id, status, created_at, updated_at)
		VALUES
			(:id, :event_id, :fight_number, :participant_a_id, :participant_b_id,
			 :cock_a_id, :cock_b_id, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("fight_repo.Create: %w", err)
	}
	return nil
}

// GetByID fetches a fight by its primary key.
func (r *FightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FightSchedule, error) {
	var f domain.FightSchedule
	err := r.db.GetContext(ctx, &f, `SELECT * FROM fights WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFightNotFound
		}
		return nil, fmt.Errorf("fight_repo.GetByID: %w", err)
	}
	return &f, nil
}

// GetByIDForUpdate fetches a fight under a row lock inside tx.  Settlement
// serialises on this lock: concurrent settle calls for the same fight queue
// here and the second one sees the updated status.
func (r *FightRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.FightSchedule, error) {
	var f domain.FightSchedule
	err := tx.GetContext(ctx, &f, `SELECT * FROM fights WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFightNotFound
		}
		return nil, fmt.Errorf("fight_repo.GetByIDForUpdate: %w", err)
	}
	return &f, nil
}

// ListByEvent returns the event's full fight card in fight-number order.
func (r *FightRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.FightSchedule, error) {
	var fights []*domain.FightSchedule
	err := r.db.SelectContext(ctx, &fights,
		`SELECT * FROM fights WHERE event_id = $1 ORDER BY fight_number ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("fight_repo.ListByEvent: %w", err)
	}
	return fights, nil
}

// FightCounts holds the per-event match progress counters.
type FightCounts struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
	Remaining int `db:"remaining"`
}

// CountByEvent returns the event's match progress counters.  Cancelled fights
// count toward the total but neither toward completed nor remaining.
func (r *FightRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (FightCounts, error) {
	var c FightCounts
	err := r.db.GetContext(ctx, &c, `
		SELECT
			COUNT(*)                                                          AS total,
			COUNT(*) FILTER (WHERE status = 'completed')                      AS completed,
			COUNT(*) FILTER (WHERE status IN ('scheduled', 'in_progress'))    AS remaining
		FROM fights
		WHERE event_id = $1`,
		eventID)
	if err != nil {
		return FightCounts{}, fmt.Errorf("fight_repo.CountByEvent: %w", err)
	}
	return c, nil
}

// UpdateStatus sets the fight status inside tx.
func (r *FightRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status domain.FightStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE fights SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("fight_repo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrFightNotFound
	}
	return nil
}
