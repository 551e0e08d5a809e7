package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chronolog/internal/middleware"
	"chronolog/internal/model"
	"chronolog/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Timing      string   `json:"timing"`
	Evaluations []string `json:"evaluations"`
	MemberIDs   []string `json:"memberIds"`
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	evaluations := make([]model.GroupEvaluation, 0, len(req.Evaluations))
	for _, evaluation := range req.Evaluations {
		evaluations = append(evaluations, model.GroupEvaluation(evaluation))
	}

	userID := middleware.UserID(c)
	group, apiErr := h.groupService.Create(c.Request.Context(), userID, service.CreateGroupInput{
		Name:        req.Name,
		Timing:      model.GroupTiming(req.Timing),
		Evaluations: evaluations,
		MemberIDs:   req.MemberIDs,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *GroupHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	groups, apiErr := h.groupService.List(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	group, apiErr := h.groupService.Get(c.Request.Context(), userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (h *GroupHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.groupService.Delete(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) Report(c *gin.Context) {
	userID := middleware.UserID(c)
	report, apiErr := h.groupService.Report(c.Request.Context(), userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
