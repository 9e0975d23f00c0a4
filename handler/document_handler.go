package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/service"
)

type DocumentHandler struct {
	sessions    *service.SessionService
	maxFileSize int64
	logger      *slog.Logger
}

func NewDocumentHandler(sessions *service.SessionService, maxFileSize int64, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{sessions: sessions, maxFileSize: maxFileSize, logger: logger}
}

// UploadDocument handles POST /sessions/:id/documents/:kind. A document whose
// text cannot be read still answers 200; the outcome carries the status.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	kind, err := dto.ParseDocumentKind(c.Param("kind"))
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		sendError(c, h.logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	req := &dto.DocumentUploadRequest{
		Kind:     kind,
		File:     file,
		Password: c.PostForm("password"),
	}
	if err := req.Validate(h.maxFileSize); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	resp, err := h.sessions.UploadDocument(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		sendServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
