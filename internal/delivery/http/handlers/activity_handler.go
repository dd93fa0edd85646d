package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the presale, store lookup and stats routes of an activity.
type ActivityHandler struct {
	presale  usecase.PresaleUsecase
	stores   usecase.StoreUsecase
	activity usecase.ActivityUsecase
}

func NewActivityHandler(presale usecase.PresaleUsecase, stores usecase.StoreUsecase, activity usecase.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{presale: presale, stores: stores, activity: activity}
}

// POST /api/v1/activities/:id/presale
func (h *ActivityHandler) Reserve(c *gin.Context) {
	var req request.ReservePresaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reservation, err := h.presale.ReservePresale(c.Request.Context(), c.Param("id"), req.UserID, req.Qty)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, response.FromPresaleReservation(reservation))
}

// GET /api/v1/activities/:id/stores/nearby?lat=&lng=&limit=
func (h *ActivityHandler) NearbyStores(c *gin.Context) {
	lat, err := optionalFloat(c.Query("lat"))
	if err != nil {
		respondError(c, domain.ErrInvalidArgument)
		return
	}
	lng, err := optionalFloat(c.Query("lng"))
	if err != nil {
		respondError(c, domain.ErrInvalidArgument)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		respondError(c, domain.ErrInvalidArgument)
		return
	}

	stores, err := h.stores.NearbyStores(c.Request.Context(), c.Param("id"), lat, lng, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromNearbyStores(stores))
}

// GET /api/v1/activities/:id/stats
func (h *ActivityHandler) Stats(c *gin.Context) {
	stats, err := h.activity.GetActivityStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromActivityStats(stats))
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, strconv.ErrSyntax
	}
	return &v, nil
}
