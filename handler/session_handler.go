package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/service"
)

type SessionHandler struct {
	sessions *service.SessionService
	logger   *slog.Logger
}

func NewSessionHandler(sessions *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// CreateSession handles POST /sessions. The body is optional.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sendError(c, h.logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	snap, err := h.sessions.CreateSession(req.Plan)
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.DeleteSession(c.Param("id")); err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyPlan handles PUT /sessions/:id/plan
func (h *SessionHandler) ApplyPlan(c *gin.Context) {
	var req dto.ApplyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	snap, err := h.sessions.ApplyPlan(c.Param("id"), req.Plan)
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateFields handles PATCH /sessions/:id/fields
func (h *SessionHandler) UpdateFields(c *gin.Context) {
	var req dto.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	values, err := req.Validate()
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}

	snap, err := h.sessions.UpdateFields(c.Param("id"), values)
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Reset handles POST /sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	snap, err := h.sessions.Reset(c.Param("id"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.sessions.Plans()})
}
