package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sabongline/derby/internal/service"
)

// FightHandler exposes the fight-card endpoints.
type FightHandler struct {
	schedulingSvc *service.SchedulingService
}

// NewFightHandler creates a FightHandler.
func NewFightHandler(schedulingSvc *service.SchedulingService) *FightHandler {
	return &FightHandler{schedulingSvc: schedulingSvc}
}

type createFightBody struct {
	EventID        string `json:"event_id" binding:"required"`
	ParticipantAID string `json:"participant_a_id" binding:"required"`
	ParticipantBID string `json:"participant_b_id" binding:"required"`
	CockAID        string `json:"cock_a_id" binding:"required"`
	CockBID        string `json:"cock_b_id" binding:"required"`
}

// Create handles POST /api/v1/fights.
func (h *FightHandler) Create(c *gin.Context) {
	var body createFightBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, 5)
	for _, raw := range []string{body.EventID, body.ParticipantAID, body.ParticipantBID, body.CockAID, body.CockBID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "all ids must be valid UUIDs")
			return
		}
		ids = append(ids, id)
	}

	fight, err := h.schedulingSvc.CreateFight(c.Request.Context(), service.CreateFightRequest{
		EventID:        ids[0],
		ParticipantAID: ids[1],
		ParticipantBID: ids[2],
		CockAID:        ids[3],
		CockBID:        ids[4],
	})
	if err != nil {
		respondDomainError(c, err, "failed to create fight")
		return
	}
	respondSuccess(c, http.StatusCreated, fight)
}

// Start handles POST /api/v1/fights/:id/start.
func (h *FightHandler) Start(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid fight id")
		return
	}
	fight, err := h.schedulingSvc.StartFight(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to start fight")
		return
	}
	respondSuccess(c, http.StatusOK, fight)
}

// Cancel handles POST /api/v1/fights/:id/cancel.
func (h *FightHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid fight id")
		return
	}
	fight, err := h.schedulingSvc.CancelFight(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to cancel fight")
		return
	}
	respondSuccess(c, http.StatusOK, fight)
}

// ListCard handles GET /api/v1/events/:id/fights.
func (h *FightHandler) ListCard(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid event id")
		return
	}
	fights, err := h.schedulingSvc.ListCard(c.Request.Context(), eventID)
	if err != nil {
		respondDomainError(c, err, "failed to list fight card")
		return
	}
	respondSuccess(c, http.StatusOK, fights)
}
