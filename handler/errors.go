package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

// sendError sends a structured error response
func sendError(c *gin.Context, logger *slog.Logger, statusCode int, code string, err error) {
	resp := dto.ErrorResponse{
		Error:   code,
		Message: http.StatusText(statusCode),
		Code:    statusCode,
	}
	if err != nil {
		resp.Message = err.Error()
	}

	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
		resp.Message = verr.Message
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request.failed", "path", c.FullPath(), "status", statusCode, "error", err)
	} else {
		logger.Debug("request.rejected", "path", c.FullPath(), "status", statusCode, "error", err)
	}
	c.AbortWithStatusJSON(statusCode, resp)
}

// sendServiceError maps a service error onto a status and error code.
func sendServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		sendError(c, logger, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err)
	case errors.Is(err, dto.ErrSessionNotFound):
		sendError(c, logger, http.StatusNotFound, "SESSION_NOT_FOUND", err)
	case errors.Is(err, dto.ErrUnknownDocumentKind):
		sendError(c, logger, http.StatusNotFound, "UNKNOWN_DOCUMENT_KIND", err)
	case errors.Is(err, dto.ErrUnknownPlan):
		sendError(c, logger, http.StatusBadRequest, "UNKNOWN_PLAN", err)
	case errors.Is(err, dto.ErrUnknownField):
		sendError(c, logger, http.StatusBadRequest, "UNKNOWN_FIELD", err)
	case errors.Is(err, dto.ErrNoCalculation):
		sendError(c, logger, http.StatusConflict, "NO_CALCULATION", err)
	default:
		sendError(c, logger, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}
