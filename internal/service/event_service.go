package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// EventService
// ──────────────────────────────────────────────────────────────────────────────

// CreateEventRequest carries the inputs for opening a new derby event.
type CreateEventRequest struct {
	Name               string
	EventType          domain.EventType
	NoCockRequirements int
	Prize              decimal.Decimal
	EventDate          time.Time
}

// RegisterCockRequest carries the inputs for entering a cock under a
// participant.
type RegisterCockRequest struct {
	ParticipantID uuid.UUID
	LegBandNo     string
	Weight        *int
}

// EventService owns the registry side of a derby: events, participants and
// their cock entries.  Scheduling and settlement read this registry but never
// write it.
type EventService struct {
	eventRepo *repository.EventRepository
	cockRepo  *repository.CockRepository
	cfg       *config.Config
}

// NewEventService creates an EventService.
func NewEventService(
	eventRepo *repository.EventRepository,
	cockRepo *repository.CockRepository,
	cfg *config.Config,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		cockRepo:  cockRepo,
		cfg:       cfg,
	}
}

// CreateEvent opens a new event in the upcoming state.  A missing cock
// requirement falls back to the configured default; a missing event date
// defaults to today.
func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.DerbyEvent, error) {
	var errs domain.ValidationErrors
	if req.Name == "" {
		errs.Add("name", "event name is required")
	}
	if !req.EventType.IsValid() {
		errs.Add("event_type", "must be one of derby, fastest_kill")
	}
	if req.NoCockRequirements < 0 {
		errs.Add("no_cock_requirements", "must not be negative")
	}
	if req.Prize.IsNegative() {
		errs.Add("prize", "prize must not be negative")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if req.NoCockRequirements == 0 {
		req.NoCockRequirements = s.cfg.Derby.DefaultCocksReq
	}
	if req.EventDate.IsZero() {
		req.EventDate = time.Now().UTC()
	}

	now := time.Now().UTC()
	event := &domain.DerbyEvent{
		ID:                 uuid.New(),
		Name:               req.Name,
		EventType:          req.EventType,
		Status:             domain.EventStatusUpcoming,
		NoCockRequirements: req.NoCockRequirements,
		Prize:              req.Prize,
		EventDate:          req.EventDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("[event] created %q (%s) type=%s req=%d prize=%s",
		event.Name, event.ID, event.EventType, event.NoCockRequirements,
		event.Prize.StringFixed(2))
	return event, nil
}

// GetEvent returns one event by ID.
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.DerbyEvent, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents returns a page of events, newest first.
func (s *EventService) ListEvents(ctx context.Context, page, limit int) ([]*domain.DerbyEvent, error) {
	events, err := s.eventRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("event_service.ListEvents: %w", err)
	}
	if events == nil {
		events = []*domain.DerbyEvent{}
	}
	return events, nil
}

// UpdateStatus moves an event through its lifecycle.
func (s *EventService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.DerbyEvent, error) {
	switch status {
	case domain.EventStatusUpcoming, domain.EventStatusOngoing, domain.EventStatusFinished:
	default:
		return nil, domain.ValidationErrors{
			{Field: "status", Message: "must be one of upcoming, ongoing, finished"},
		}
	}
	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, id)
}

// ──────────────────────────────────────────────────────────────────────────────
// Participants & cocks
// ──────────────────────────────────────────────────────────────────────────────

// RegisterParticipant enters an owner into an event.
func (s *EventService) RegisterParticipant(ctx context.Context, eventID uuid.UUID, name string) (*domain.Participant, error) {
	if name == "" {
		return nil, domain.ValidationErrors{
			{Field: "name", Message: "participant name is required"},
		}
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	p := &domain.Participant{
		ID:        uuid.New(),
		EventID:   eventID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.eventRepo.CreateParticipant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListParticipants returns every participant registered in an event.
func (s *EventService) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]*domain.Participant, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event_service.ListParticipants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}

// RegisterCock enters a cock under a participant.  Entries above the event's
// cock requirement are allowed — reserves are common — but the leg band number
// must be present.
func (s *EventService) RegisterCock(ctx context.Context, req RegisterCockRequest) (*domain.CockProfile, error) {
	var errs domain.ValidationErrors
	if req.LegBandNo == "" {
		errs.Add("leg_band_no", "leg band number is required")
	}
	if req.Weight != nil && *req.Weight <= 0 {
		errs.Add("weight", "weight must be positive when given")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	participant, err := s.eventRepo.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		return nil, err
	}

	cock := &domain.CockProfile{
		ID:            uuid.New(),
		ParticipantID: participant.ID,
		EventID:       participant.EventID,
		LegBandNo:     req.LegBandNo,
		Weight:        req.Weight,
		Status:        domain.CockStatusAvailable,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.cockRepo.Create(ctx, cock); err != nil {
		return nil, err
	}
	return cock, nil
}

// ListCocks returns every cock a participant registered.
func (s *EventService) ListCocks(ctx context.Context, participantID uuid.UUID) ([]*domain.CockProfile, error) {
	if _, err := s.eventRepo.GetParticipant(ctx, participantID); err != nil {
		return nil, err
	}
	cocks, err := s.cockRepo.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("event_service.ListCocks: %w", err)
	}
	if cocks == nil {
		cocks = []*domain.CockProfile{}
	}
	return cocks, nil
}
