package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/service"
)

// EventHandler exposes the registry endpoints: events, participants, cock
// entries and the standings report.
type EventHandler struct {
	eventSvc     *service.EventService
	standingsSvc *service.StandingsService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc *service.EventService, standingsSvc *service.StandingsService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, standingsSvc: standingsSvc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Events
// ──────────────────────────────────────────────────────────────────────────────

type createEventBody struct {
	Name               string  `json:"name" binding:"required"`
	EventType          string  `json:"event_type" binding:"required"`
	NoCockRequirements int     `json:"no_cock_requirements"`
	Prize              string  `json:"prize" binding:"required"`
	EventDate          *string `json:"event_date"` // RFC 3339; defaults to now
}

// Create handles POST /api/v1/events.
func (h *EventHandler) Create(c *gin.Context) {
	var body createEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}

	prize, err := decimal.NewFromString(body.Prize)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", "prize must be a decimal string")
		return
	}

	var eventDate time.Time
	if body.EventDate != nil {
		eventDate, err = time.Parse(time.RFC3339, *body.EventDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "event_date must be RFC 3339")
			return
		}
	}

	event, err := h.eventSvc.CreateEvent(c.Request.Context(), service.CreateEventRequest{
		Name:               body.Name,
		EventType:          domain.EventType(body.EventType),
		NoCockRequirements: body.NoCockRequirements,
		Prize:              prize,
		EventDate:          eventDate,
	})
	if err != nil {
		respondDomainError(c, err, "failed to create event")
		return
	}
	respondSuccess(c, http.StatusCreated, event)
}

// Get handles GET /api/v1/events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	event, err := h.eventSvc.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to fetch event")
		return
	}
	respondSuccess(c, http.StatusOK, event)
}

// List handles GET /api/v1/events.
func (h *EventHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	events, err := h.eventSvc.ListEvents(c.Request.Context(), page, limit)
	if err != nil {
		respondDomainError(c, err, "failed to list events")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"events": events,
		"page":   page,
		"limit":  limit,
	})
}

type updateStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/events/:id/status.
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}
	event, err := h.eventSvc.UpdateStatus(c.Request.Context(), id, domain.EventStatus(body.Status))
	if err != nil {
		respondDomainError(c, err, "failed to update event status")
		return
	}
	respondSuccess(c, http.StatusOK, event)
}

// ──────────────────────────────────────────────────────────────────────────────
// Participants & cocks
// ──────────────────────────────────────────────────────────────────────────────

type registerParticipantBody struct {
	Name string `json:"name" binding:"required"`
}

// RegisterParticipant handles POST /api/v1/events/:id/participants.
func (h *EventHandler) RegisterParticipant(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	var body registerParticipantBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}
	p, err := h.eventSvc.RegisterParticipant(c.Request.Context(), eventID, body.Name)
	if err != nil {
		respondDomainError(c, err, "failed to register participant")
		return
	}
	respondSuccess(c, http.StatusCreated, p)
}

// ListParticipants handles GET /api/v1/events/:id/participants.
func (h *EventHandler) ListParticipants(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	participants, err := h.eventSvc.ListParticipants(c.Request.Context(), eventID)
	if err != nil {
		respondDomainError(c, err, "failed to list participants")
		return
	}
	respondSuccess(c, http.StatusOK, participants)
}

type registerCockBody struct {
	LegBandNo string `json:"leg_band_no" binding:"required"`
	Weight    *int   `json:"weight"`
}

// RegisterCock handles POST /api/v1/participants/:id/cocks.
func (h *EventHandler) RegisterCock(c *gin.Context) {
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid participant id")
		return
	}
	var body registerCockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}
	cock, err := h.eventSvc.RegisterCock(c.Request.Context(), service.RegisterCockRequest{
		ParticipantID: participantID,
		LegBandNo:     body.LegBandNo,
		Weight:        body.Weight,
	})
	if err != nil {
		respondDomainError(c, err, "failed to register cock")
		return
	}
	respondSuccess(c, http.StatusCreated, cock)
}

// ListCocks handles GET /api/v1/participants/:id/cocks.
func (h *EventHandler) ListCocks(c *gin.Context) {
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid participant id")
		return
	}
	cocks, err := h.eventSvc.ListCocks(c.Request.Context(), participantID)
	if err != nil {
		respondDomainError(c, err, "failed to list cocks")
		return
	}
	respondSuccess(c, http.StatusOK, cocks)
}

// ──────────────────────────────────────────────────────────────────────────────
// Standings
// ──────────────────────────────────────────────────────────────────────────────

// Standings handles GET /api/v1/events/:id/standings.
func (h *EventHandler) Standings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	report, err := h.standingsSvc.Standings(c.Request.Context(), eventID)
	if err != nil {
		respondDomainError(c, err, "failed to compute standings")
		return
	}
	respondSuccess(c, http.StatusOK, report)
}
