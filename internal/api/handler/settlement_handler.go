package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/domain"
	"github.com/sabongline/derby/internal/service"
)

// SettlementHandler exposes the settlement endpoints: commit a result, verify
// it, revert it, and read it back.
type SettlementHandler struct {
	settlementSvc *service.SettlementService
}

// NewSettlementHandler creates a SettlementHandler.
func NewSettlementHandler(settlementSvc *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Settle
// ──────────────────────────────────────────────────────────────────────────────

type wagerBody struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
}

type settleBody struct {
	Outcome             string      `json:"outcome" binding:"required"`
	WinnerParticipantID string      `json:"winner_participant_id"`
	LoserParticipantID  string      `json:"loser_participant_id"`
	WinnerCockID        string      `json:"winner_cock_id"`
	LoserCockID         string      `json:"loser_cock_id"`
	Wagers              []wagerBody `json:"wagers"`
	MatchTimeSec        *float64    `json:"match_time_sec"`
}

// Settle handles POST /api/v1/fights/:id/settle.
func (h *SettlementHandler) Settle(c *gin.Context) {
	fightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid fight id")
		return
	}
	var body settleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BODY", err.Error())
		return
	}

	proposal := domain.SettleProposal{
		Outcome:      domain.Outcome(body.Outcome),
		MatchTimeSec: body.MatchTimeSec,
	}

	// Winner/loser and wagers only matter for a decisive result; a malformed
	// UUID is still a bad request, membership problems come back as a 422
	// validation list from the service.
	if proposal.Outcome == domain.OutcomeWin {
		parsed := make([]uuid.UUID, 0, 4)
		for _, raw := range []string{
			body.WinnerParticipantID, body.LoserParticipantID,
			body.WinnerCockID, body.LoserCockID,
		} {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "ERR_INVALID_ID",
					"winner/loser participant and cock ids must be valid UUIDs")
				return
			}
			parsed = append(parsed, id)
		}
		proposal.WinnerParticipantID = parsed[0]
		proposal.LoserParticipantID = parsed[1]
		proposal.WinnerCockID = parsed[2]
		proposal.LoserCockID = parsed[3]

		for _, w := range body.Wagers {
			pid, err := uuid.Parse(w.ParticipantID)
			if err != nil {
				respondError(c, http.StatusBadRequest, "ERR_INVALID_ID",
					"wager participant_id must be a valid UUID")
				return
			}
			amount, err := decimal.NewFromString(w.Amount)
			if err != nil {
				respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT",
					"wager amount must be a decimal string")
				return
			}
			proposal.Wagers = append(proposal.Wagers, domain.Wager{
				ParticipantID: pid,
				Amount:        amount,
			})
		}
	}

	settlement, err := h.settlementSvc.Settle(c.Request.Context(), fightID, proposal)
	if err != nil {
		respondDomainError(c, err, "failed to settle fight")
		return
	}
	respondSuccess(c, http.StatusCreated, settlement)
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify / revert / read
// ──────────────────────────────────────────────────────────────────────────────

// Verify handles POST /api/v1/settlements/:id/verify.
func (h *SettlementHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid settlement id")
		return
	}
	settlement, err := h.settlementSvc.Verify(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to verify settlement")
		return
	}
	respondSuccess(c, http.StatusOK, settlement)
}

// Revert handles DELETE /api/v1/settlements/:id.
func (h *SettlementHandler) Revert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid settlement id")
		return
	}
	if err := h.settlementSvc.Revert(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "failed to revert settlement")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"reverted": true})
}

// Get handles GET /api/v1/settlements/:id.
func (h *SettlementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid settlement id")
		return
	}
	settlement, err := h.settlementSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to fetch settlement")
		return
	}
	respondSuccess(c, http.StatusOK, settlement)
}

// GetByFight handles GET /api/v1/fights/:id/settlement.
func (h *SettlementHandler) GetByFight(c *gin.Context) {
	fightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid fight id")
		return
	}
	settlement, err := h.settlementSvc.GetByFight(c.Request.Context(), fightID)
	if err != nil {
		respondDomainError(c, err, "failed to fetch settlement")
		return
	}
	respondSuccess(c, http.StatusOK, settlement)
}
