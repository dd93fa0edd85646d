package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-activity-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	uc usecase.RedemptionUsecase
}

func NewRedemptionHandler(uc usecase.RedemptionUsecase) *RedemptionHandler {
	return &RedemptionHandler{uc: uc}
}

// POST /api/v1/redemptions/scan
func (h *RedemptionHandler) Scan(c *gin.Context) {
	var req request.RedeemScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	redemption, err := h.uc.RedeemByScan(c.Request.Context(), req.Code, req.StaffLineID, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromRedemption(redemption))
}

// POST /api/v1/redemptions/manual
func (h *RedemptionHandler) Manual(c *gin.Context) {
	var req request.RedeemManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	redemption, err := h.uc.RedeemManual(c.Request.Context(), req.Code, req.StoreID, req.StaffID, req.LineUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromRedemption(redemption))
}

// POST /api/v1/redemptions/:id/cancel
func (h *RedemptionHandler) Cancel(c *gin.Context) {
	var req request.CancelRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.uc.CancelRedemption(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}
