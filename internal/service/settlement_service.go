package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces injected into SettlementService to avoid import cycles
// ──────────────────────────────────────────────────────────────────────────────

// Broadcaster is the minimal interface SettlementService needs from the WS
// hub.  Implemented by ws.Hub.
type Broadcaster interface {
	BroadcastFightSettled(s *domain.MatchSettlement)
}

// ──────────────────────────────────────────────────────────────────────────────
// SettlementService
// ──────────────────────────────────────────────────────────────────────────────

// SettlementService is the match settlement engine: it validates a proposed
// result, assigns betting sides, computes the pool and plazada, and commits
// the settlement together with the fight and cock status transitions — all
// inside a single PostgreSQL transaction.
type SettlementService struct {
	db             *sqlx.DB
	eventRepo      *repository.EventRepository
	fightRepo      *repository.FightRepository
	cockRepo       *repository.CockRepository
	settlementRepo *repository.SettlementRepository
	cfg            *config.Config
	broadcaster    Broadcaster // injected after the WS hub is built
}

// NewSettlementService creates a SettlementService.
func NewSettlementService(
	db *sqlx.DB,
	eventRepo *repository.EventRepository,
	fightRepo *repository.FightRepository,
	cockRepo *repository.CockRepository,
	settlementRepo *repository.SettlementRepository,
	cfg *config.Config,
) *SettlementService {
	return &SettlementService{
		db:             db,
		eventRepo:      eventRepo,
		fightRepo:      fightRepo,
		cockRepo:       cockRepo,
		settlementRepo: settlementRepo,
		cfg:            cfg,
	}
}

// SetBroadcaster injects the WS hub dependency post-construction.
func (s *SettlementService) SetBroadcaster(b Broadcaster) { s.broadcaster = b }

// ──────────────────────────────────────────────────────────────────────────────
// Settle
// ──────────────────────────────────────────────────────────────────────────────

// Settle commits a proposed result for a fight.
//
// Structural problems come back as domain.ValidationErrors with every failed
// rule listed; state conflicts (fight already settled, duplicate settlement)
// come back as sentinel errors.  Either way nothing is partially applied: the
// settlement row, the fight status and both cock statuses move in one
// transaction or not at all.
func (s *SettlementService) Settle(ctx context.Context, fightID uuid.UUID, proposal domain.SettleProposal) (*domain.MatchSettlement, error) {
	// ── 1. Begin transaction ─────────────────────────────────────────────────
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("settlement_service.Settle: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// ── 2. Lock the fight and check its state ────────────────────────────────
	// Concurrent settles for the same fight serialise on this row lock; the
	// loser of the race sees status=completed or the existing settlement.
	fight, err := s.fightRepo.GetByIDForUpdate(ctx, tx, fightID)
	if err != nil {
		return nil, err
	}
	if !fight.IsSettleable() {
		err = domain.ErrFightNotSettleable
		return nil, err
	}
	exists, err := s.settlementRepo.ExistsForFight(ctx, tx, fightID)
	if err != nil {
		return nil, err
	}
	if exists {
		err = domain.ErrSettlementExists
		return nil, err
	}

	// ── 3. Structural validation (collect-all) ───────────────────────────────
	event, err := s.eventRepo.GetByID(ctx, fight.EventID)
	if err != nil {
		return nil, err
	}
	if verrs := domain.ValidateProposal(event, fight, proposal, s.cfg.Derby.MaxMatchTimeSec); verrs.HasErrors() {
		err = verrs
		return nil, verrs
	}

	// ── 4. Build the settlement record ───────────────────────────────────────
	var settlement *domain.MatchSettlement
	if proposal.Outcome.IsSpecial() {
		settlement = domain.NewSpecialSettlement(fight, proposal.Outcome)
	} else {
		settlement = domain.NewWinSettlement(
			fight,
			proposal.WinnerParticipantID, proposal.LoserParticipantID,
			proposal.WinnerCockID, proposal.LoserCockID,
			proposal.Wagers[0], proposal.Wagers[1],
			proposal.MatchTimeSec,
			plazadaRate(s.cfg),
		)
	}

	// ── 5. Persist (unique index on fight_id backs the row-lock check) ───────
	if err = s.settlementRepo.Create(ctx, tx, settlement); err != nil {
		return nil, err
	}

	// ── 6. Fight and cock status transitions ─────────────────────────────────
	// Win and draw retire both cocks; a cancelled fight never happened, so the
	// cocks stay bookable.
	if proposal.Outcome == domain.OutcomeCancelled {
		if err = s.fightRepo.UpdateStatus(ctx, tx, fight.ID, domain.FightStatusCancelled); err != nil {
			return nil, err
		}
		if err = s.cockRepo.UpdateStatusBatch(ctx, tx, fight.CockIDs(), domain.CockStatusAvailable); err != nil {
			return nil, err
		}
	} else {
		if err = s.fightRepo.UpdateStatus(ctx, tx, fight.ID, domain.FightStatusCompleted); err != nil {
			return nil, err
		}
		if err = s.cockRepo.UpdateStatusBatch(ctx, tx, fight.CockIDs(), domain.CockStatusFought); err != nil {
			return nil, err
		}
	}

	// ── 7. Commit ─────────────────────────────────────────────────────────────
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("settlement_service.Settle: commit: %w", err)
	}

	log.Printf("[settlement] fight #%d (%s) settled: outcome=%s pool=%s plazada=%s",
		fight.FightNumber, fight.ID, settlement.Outcome,
		settlement.TotalBetPool.StringFixed(2), settlement.TotalPlazada.StringFixed(2))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastFightSettled(settlement)
	}
	return settlement, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Revert
// ──────────────────────────────────────────────────────────────────────────────

// Revert deletes an unverified settlement and atomically restores the fight
// to scheduled and both cocks to available.  Verified settlements are
// immutable and always fail with ErrSettlementVerified.
//
// Cancelled settlements are never revertible: cancellation already released
// the cocks and they may be committed to other fights by now, so a blanket
// restore would put one cock in two open fights.
func (s *SettlementService) Revert(ctx context.Context, settlementID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settlement_service.Revert: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	settlement, err := s.settlementRepo.GetByIDForUpdate(ctx, tx, settlementID)
	if err != nil {
		return err
	}
	if settlement.IsVerified() {
		err = domain.ErrSettlementVerified
		return err
	}
	if settlement.Outcome == domain.OutcomeCancelled {
		err = domain.ErrSettlementNotRevertible
		return err
	}

	if err = s.settlementRepo.Delete(ctx, tx, settlementID); err != nil {
		return err
	}

	fight, err := s.fightRepo.GetByIDForUpdate(ctx, tx, settlement.FightID)
	if err != nil {
		return err
	}
	if err = s.fightRepo.UpdateStatus(ctx, tx, fight.ID, domain.FightStatusScheduled); err != nil {
		return err
	}
	if err = s.cockRepo.UpdateStatusBatch(ctx, tx, fight.CockIDs(), domain.CockStatusAvailable); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("settlement_service.Revert: commit: %w", err)
	}

	log.Printf("[settlement] settlement %s reverted: fight #%d back to scheduled",
		settlementID, fight.FightNumber)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify
// ──────────────────────────────────────────────────────────────────────────────

// Verify locks a settlement against any further mutation.  Idempotent:
// verifying twice succeeds and keeps the original timestamp.
func (s *SettlementService) Verify(ctx context.Context, settlementID uuid.UUID) (*domain.MatchSettlement, error) {
	if err := s.settlementRepo.Verify(ctx, settlementID); err != nil {
		return nil, err
	}
	settlement, err := s.settlementRepo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	log.Printf("[settlement] settlement %s verified", settlementID)
	return settlement, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Query helpers
// ──────────────────────────────────────────────────────────────────────────────

// GetByID returns a single settlement.
func (s *SettlementService) GetByID(ctx context.Context, settlementID uuid.UUID) (*domain.MatchSettlement, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("settlement_service.GetByID: %w", err)
	}
	return settlement, nil
}

// GetByFight returns the settlement of a fight, if one exists.
func (s *SettlementService) GetByFight(ctx context.Context, fightID uuid.UUID) (*domain.MatchSettlement, error) {
	settlement, err := s.settlementRepo.GetByFightID(ctx, fightID)
	if err != nil {
		return nil, fmt.Errorf("settlement_service.GetByFight: %w", err)
	}
	return settlement, nil
}
