package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/vaeba-calculator/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CalculationHandler struct {
	sessions *service.SessionService
	logger   *slog.Logger
}

func NewCalculationHandler(sessions *service.SessionService, logger *slog.Logger) *CalculationHandler {
	return &CalculationHandler{sessions: sessions, logger: logger}
}

// Calculate handles POST /sessions/:id/calculate
func (h *CalculationHandler) Calculate(c *gin.Context) {
	res, err := h.sessions.Calculate(c.Param("id"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Audit returns the transcript of the last calculation as plain text.
func (h *CalculationHandler) Audit(c *gin.Context) {
	audit, err := h.sessions.Audit(c.Param("id"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(audit))
}

func (h *CalculationHandler) AuditXLSX(c *gin.Context) {
	data, err := h.sessions.AuditXLSX(c.Param("id"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="auditoria-vaeba.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
