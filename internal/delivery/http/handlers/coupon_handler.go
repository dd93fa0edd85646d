package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-activity-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	uc usecase.CouponUsecase
}

func NewCouponHandler(uc usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

// POST /api/v1/activities/:id/claim
func (h *CouponHandler) Claim(c *gin.Context) {
	var req request.ClaimCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	coupon, err := h.uc.ClaimCoupon(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, response.FromCoupon(coupon))
}

// GET /api/v1/users/:id/coupons
func (h *CouponHandler) ListByUser(c *gin.Context) {
	coupons, err := h.uc.GetUserCoupons(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromCoupons(coupons))
}

// POST /api/v1/users/:id/coupons/read
func (h *CouponHandler) MarkRead(c *gin.Context) {
	n, err := h.uc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": n})
}

// POST /api/v1/coupons/:id/expire
func (h *CouponHandler) Expire(c *gin.Context) {
	coupon, err := h.uc.ExpireCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromCoupon(coupon))
}
