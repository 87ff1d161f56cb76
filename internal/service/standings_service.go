package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
)

// StandingsService is the read-side projection over an event's settlements:
// win/loss tallies, champion and elimination status, and the tiered prize
// split.  It never writes — the report is a point-in-time snapshot and is
// safe to run concurrently with settlement commits.
type StandingsService struct {
	eventRepo      *repository.EventRepository
	fightRepo      *repository.FightRepository
	settlementRepo *repository.SettlementRepository
}

// NewStandingsService creates a StandingsService.
func NewStandingsService(
	eventRepo *repository.EventRepository,
	fightRepo *repository.FightRepository,
	settlementRepo *repository.SettlementRepository,
) *StandingsService {
	return &StandingsService{
		eventRepo:      eventRepo,
		fightRepo:      fightRepo,
		settlementRepo: settlementRepo,
	}
}

// Standings recomputes the full derby report for an event from scratch: the
// ordered standings, the prize distribution and the match progress counters.
// Nothing is cached or persisted.
func (s *StandingsService) Standings(ctx context.Context, eventID uuid.UUID) (*domain.StandingsReport, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var (
		participants []*domain.Participant
		settlements  []*domain.MatchSettlement
		counts       repository.FightCounts
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.eventRepo.ListParticipants(gCtx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		settlements, err = s.settlementRepo.ListByEvent(gCtx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.fightRepo.CountByEvent(gCtx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("standings_service.Standings: %w", err)
	}

	standings := domain.ComputeStandings(participants, settlements, event.NoCockRequirements)
	prizes := domain.DistributePrizes(standings, event.Prize)

	return &domain.StandingsReport{
		EventID:           eventID,
		Standings:         standings,
		PrizeDistribution: prizes,
		TotalMatches:      counts.Total,
		CompletedMatches:  counts.Completed,
		RemainingMatches:  counts.Remaining,
	}, nil
}
