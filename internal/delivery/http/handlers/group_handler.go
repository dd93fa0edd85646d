package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-activity-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	uc usecase.GroupUsecase
}

func NewGroupHandler(uc usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// POST /api/v1/activities/:id/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instance, err := h.uc.CreateGroupInstance(c.Request.Context(), c.Param("id"), req.LeaderUserID, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, response.FromGroupInstance(instance))
}

// POST /api/v1/groups/:id/join
func (h *GroupHandler) Join(c *gin.Context) {
	var req request.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.uc.JoinGroup(c.Request.Context(), c.Param("id"), req.UserID, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromGroupMember(member))
}

// GET /api/v1/activities/:id/groups
func (h *GroupHandler) List(c *gin.Context) {
	views, err := h.uc.GetGroupInstances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromGroupInstanceViews(views))
}
