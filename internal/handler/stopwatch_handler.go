package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "chronolog/internal/errors"
	"chronolog/internal/middleware"
	"chronolog/internal/model"
	"chronolog/internal/objective"
	"chronolog/internal/service"
)

type StopwatchHandler struct {
	stopwatchService *service.StopwatchService
}

type createStopwatchRequest struct {
	Name string           `json:"name"`
	Lap  *model.UnitValue `json:"lap,omitempty"`
}

// transitionRequest carries the optional instant a transition happened at.
// Omitting it means "now"; supplying it supports replay and undo tooling.
type transitionRequest struct {
	At *time.Time `json:"at,omitempty"`
}

type addEventRequest struct {
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	At          *time.Time       `json:"at,omitempty"`
	Unit        *model.UnitValue `json:"unit,omitempty"`
}

func NewStopwatchHandler(stopwatchService *service.StopwatchService) *StopwatchHandler {
	return &StopwatchHandler{stopwatchService: stopwatchService}
}

func (h *StopwatchHandler) Create(c *gin.Context) {
	var req createStopwatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	view, apiErr := h.stopwatchService.Create(c.Request.Context(), userID, service.CreateStopwatchInput{
		Name: req.Name,
		Lap:  req.Lap,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stopwatch": view})
}

func (h *StopwatchHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	views, apiErr := h.stopwatchService.List(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopwatches": views})
}

func (h *StopwatchHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	view, apiErr := h.stopwatchService.Get(c.Request.Context(), userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopwatch": view})
}

func (h *StopwatchHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.stopwatchService.Delete(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StopwatchHandler) Start(c *gin.Context) {
	h.transition(c, h.stopwatchService.Start)
}

func (h *StopwatchHandler) Stop(c *gin.Context) {
	h.transition(c, h.stopwatchService.Stop)
}

func (h *StopwatchHandler) Resume(c *gin.Context) {
	h.transition(c, h.stopwatchService.Resume)
}

func (h *StopwatchHandler) Reset(c *gin.Context) {
	userID := middleware.UserID(c)
	view, apiErr := h.stopwatchService.Reset(c.Request.Context(), userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopwatch": view})
}

func (h *StopwatchHandler) AddEvent(c *gin.Context) {
	var req addEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	input := service.AddEventInput{
		Type:        model.EventType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Unit:        req.Unit,
	}
	if req.At != nil {
		input.At = *req.At
	}

	userID := middleware.UserID(c)
	view, apiErr := h.stopwatchService.AddEvent(c.Request.Context(), userID, c.Param("id"), input)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stopwatch": view})
}

func (h *StopwatchHandler) RemoveEvent(c *gin.Context) {
	userID := middleware.UserID(c)
	view, apiErr := h.stopwatchService.RemoveEvent(c.Request.Context(), userID, c.Param("id"), c.Param("eventID"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopwatch": view})
}

func (h *StopwatchHandler) Elapsed(c *gin.Context) {
	userID := middleware.UserID(c)
	millis, apiErr := h.stopwatchService.Elapsed(
		c.Request.Context(),
		userID,
		c.Param("id"),
		c.Query("start"),
		c.Query("end"),
	)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"elapsedMillis": millis})
}

func (h *StopwatchHandler) Gap(c *gin.Context) {
	first := c.Query("first")
	second := c.Query("second")
	if first == "" || second == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "missing_event_id", "message": "first and second event ids are required"},
		})
		return
	}

	userID := middleware.UserID(c)
	millis, apiErr := h.stopwatchService.Gap(c.Request.Context(), userID, c.Param("id"), first, second)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"durationMillis": millis})
}

func (h *StopwatchHandler) Score(c *gin.Context) {
	userID := middleware.UserID(c)
	objectiveType := objective.Type(c.Query("objective"))
	score, apiErr := h.stopwatchService.Score(c.Request.Context(), userID, c.Param("id"), objectiveType)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objective": objectiveType, "score": score})
}

type transitionFunc func(ctx context.Context, userID, id string, at time.Time) (*service.StopwatchView, *apperrors.APIError)

func (h *StopwatchHandler) transition(c *gin.Context, apply transitionFunc) {
	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeInvalidJSON(c)
			return
		}
	}

	var at time.Time
	if req.At != nil {
		at = *req.At
	}

	userID := middleware.UserID(c)
	view, apiErr := apply(c.Request.Context(), userID, c.Param("id"), at)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopwatch": view})
}
