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

// EventRepository handles all database operations for derby events and their
// registered participants.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, e *domain.DerbyEvent) error {
	query := `
		INSERT INTO events
			(id, name, event_type, status, no_cock_requirements, prize, event_date, created_at, updated_at)
		VALUES
			(:id, :name, :event_type, :status, :no_cock_requirements, :prize, :event_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("event_repo.Create: %w", err)
	}
	return nil
}

// GetByID fetches an event by its primary key.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DerbyEvent, error) {
	var e domain.DerbyEvent
	err := r.db.GetContext(ctx, &e, `SELECT * FROM events WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("event_repo.GetByID: %w", err)
	}
	return &e, nil
}

// List returns a paginated slice of events, newest first.
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*domain.DerbyEvent, error) {
	var events []*domain.DerbyEvent
	err := r.db.SelectContext(ctx, &events,
		`SELECT * FROM events ORDER BY event_date DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("event_repo.List: %w", err)
	}
	return events, nil
}

// UpdateStatus moves the event through its lifecycle.
func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("event_repo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// LockForScheduling acquires the event row lock inside tx.  Fight-number
// allocation serialises on this lock so two concurrent schedulers can never
// draw the same sequential number.
func (r *EventRepository) LockForScheduling(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	var eventID uuid.UUID
	err := tx.GetContext(ctx, &eventID, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("event_repo.LockForScheduling: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Participants
// ──────────────────────────────────────────────────────────────────────────────

// CreateParticipant registers a participant in an event.
func (r *EventRepository) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (id, event_id, name, created_at)
		VALUES (:id, :event_id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("event_repo.CreateParticipant: %w", err)
	}
	return nil
}

// GetParticipant fetches a participant by its primary key.
func (r *EventRepository) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.GetContext(ctx, &p, `SELECT * FROM participants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("event_repo.GetParticipant: %w", err)
	}
	return &p, nil
}

// ListParticipants returns every participant registered in an event.
func (r *EventRepository) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]*domain.Participant, error) {
	var participants []*domain.Participant
	err := r.db.SelectContext(ctx, &participants,
		`SELECT * FROM participants WHERE event_id = $1 ORDER BY created_at ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("event_repo.ListParticipants: %w", err)
	}
	return participants, nil
}
