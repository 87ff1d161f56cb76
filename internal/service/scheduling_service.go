package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// SchedulingService
// ──────────────────────────────────────────────────────────────────────────────

// FightBroadcaster is the minimal interface SchedulingService needs from the
// WS hub.  Implemented by ws.Hub.
type FightBroadcaster interface {
	BroadcastFightScheduled(f *domain.FightSchedule)
}

// CreateFightRequest carries the validated inputs for pairing two entries.
type CreateFightRequest struct {
	EventID        uuid.UUID `json:"event_id"`
	ParticipantAID uuid.UUID `json:"participant_a_id"`
	ParticipantBID uuid.UUID `json:"participant_b_id"`
	CockAID        uuid.UUID `json:"cock_a_id"`
	CockBID        uuid.UUID `json:"cock_b_id"`
}

// SchedulingService owns the fight card: pairing two participants and cocks
// under a fresh sequential fight number.  The number is allocated by a scoped
// MAX+1 query under the event row lock, inside the same transaction as the
// insert — never by an in-memory counter.
type SchedulingService struct {
	db          *sqlx.DB
	eventRepo   *repository.EventRepository
	fightRepo   *repository.FightRepository
	cockRepo    *repository.CockRepository
	broadcaster FightBroadcaster
}

// NewSchedulingService creates a SchedulingService.
func NewSchedulingService(
	db *sqlx.DB,
	eventRepo *repository.EventRepository,
	fightRepo *repository.FightRepository,
	cockRepo *repository.CockRepository,
) *SchedulingService {
	return &SchedulingService{
		db:        db,
		eventRepo: eventRepo,
		fightRepo: fightRepo,
		cockRepo:  cockRepo,
	}
}

// SetBroadcaster injects the WS hub dependency post-construction.
func (s *SchedulingService) SetBroadcaster(b FightBroadcaster) { s.broadcaster = b }

// CreateFight pairs two participants and their cocks into the event's next
// fight.  Both cocks flip available → scheduled atomically with the insert,
// so the same cock can never be booked into two open fights.
func (s *SchedulingService) CreateFight(ctx context.Context, req CreateFightRequest) (*domain.FightSchedule, error) {
	if req.ParticipantAID == req.ParticipantBID {
		return nil, domain.ValidationErrors{
			{Field: "participant_b_id", Message: "a participant cannot fight themselves"},
		}
	}

	// Verify both cocks belong to the named participants and the event before
	// opening the transaction.
	for _, pair := range []struct {
		cockID        uuid.UUID
		participantID uuid.UUID
	}{
		{req.CockAID, req.ParticipantAID},
		{req.CockBID, req.ParticipantBID},
	} {
		cock, err := s.cockRepo.GetByID(ctx, pair.cockID)
		if err != nil {
			return nil, err
		}
		if cock.ParticipantID != pair.participantID || cock.EventID != req.EventID {
			return nil, domain.ErrCockUnavailable
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scheduling_service.CreateFight: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Event row lock serialises fight-number allocation per event.
	if err = s.eventRepo.LockForScheduling(ctx, tx, req.EventID); err != nil {
		return nil, err
	}
	number, err := s.fightRepo.NextFightNumber(ctx, tx, req.EventID)
	if err != nil {
		return nil, err
	}

	// Claim both cocks; a cock already scheduled or fought fails the pairing.
	if err = s.cockRepo.ClaimForFight(ctx, tx, req.CockAID); err != nil {
		return nil, err
	}
	if err = s.cockRepo.ClaimForFight(ctx, tx, req.CockBID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fight := &domain.FightSchedule{
		ID:             uuid.New(),
		EventID:        req.EventID,
		FightNumber:    number,
		ParticipantAID: req.ParticipantAID,
		ParticipantBID: req.ParticipantBID,
		CockAID:        req.CockAID,
		CockBID:        req.CockBID,
		Status:         domain.FightStatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.fightRepo.Create(ctx, tx, fight); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("scheduling_service.CreateFight: commit: %w", err)
	}

	log.Printf("[scheduling] fight #%d created for event %s", fight.FightNumber, req.EventID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastFightScheduled(fight)
	}
	return fight, nil
}

// StartFight moves a scheduled fight into the pit.
func (s *SchedulingService) StartFight(ctx context.Context, fightID uuid.UUID) (*domain.FightSchedule, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scheduling_service.StartFight: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fight, err := s.fightRepo.GetByIDForUpdate(ctx, tx, fightID)
	if err != nil {
		return nil, err
	}
	if fight.Status != domain.FightStatusScheduled {
		err = domain.ErrFightNotSettleable
		return nil, err
	}
	if err = s.fightRepo.UpdateStatus(ctx, tx, fightID, domain.FightStatusInProgress); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("scheduling_service.StartFight: commit: %w", err)
	}

	fight.Status = domain.FightStatusInProgress
	return fight, nil
}

// CancelFight calls off a fight that has no settlement yet and releases both
// cocks back to available.  Fights that already reached the pit result go
// through the settlement path instead.
func (s *SchedulingService) CancelFight(ctx context.Context, fightID uuid.UUID) (*domain.FightSchedule, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scheduling_service.CancelFight: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fight, err := s.fightRepo.GetByIDForUpdate(ctx, tx, fightID)
	if err != nil {
		return nil, err
	}
	if !fight.IsSettleable() {
		err = domain.ErrFightNotSettleable
		return nil, err
	}
	if err = s.fightRepo.UpdateStatus(ctx, tx, fightID, domain.FightStatusCancelled); err != nil {
		return nil, err
	}
	if err = s.cockRepo.UpdateStatusBatch(ctx, tx, fight.CockIDs(), domain.CockStatusAvailable); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("scheduling_service.CancelFight: commit: %w", err)
	}

	log.Printf("[scheduling] fight #%d cancelled, cocks released", fight.FightNumber)

	fight.Status = domain.FightStatusCancelled
	return fight, nil
}

// ListCard returns the event's fight card in fight-number order.
func (s *SchedulingService) ListCard(ctx context.Context, eventID uuid.UUID) ([]*domain.FightSchedule, error) {
	fights, err := s.fightRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("scheduling_service.ListCard: %w", err)
	}
	if fights == nil {
		return []*domain.FightSchedule{}, nil
	}
	return fights, nil
}
