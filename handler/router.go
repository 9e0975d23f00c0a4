package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/vaeba-calculator/service"
)

// NewRouter wires every endpoint onto a gin engine.
func NewRouter(sessions *service.SessionService, maxFileSize int64, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	sessionHandler := NewSessionHandler(sessions, logger)
	documentHandler := NewDocumentHandler(sessions, maxFileSize, logger)
	calculationHandler := NewCalculationHandler(sessions, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "VAEBA Calculator",
		})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/plans", sessionHandler.ListPlans)

		sess := api.Group("/sessions")
		{
			sess.POST("", sessionHandler.CreateSession)
			sess.GET("/:id", sessionHandler.GetSession)
			sess.DELETE("/:id", sessionHandler.DeleteSession)
			sess.PUT("/:id/plan", sessionHandler.ApplyPlan)
			sess.PATCH("/:id/fields", sessionHandler.UpdateFields)
			sess.POST("/:id/reset", sessionHandler.Reset)
			sess.POST("/:id/documents/:kind", documentHandler.UploadDocument)
			sess.POST("/:id/calculate", calculationHandler.Calculate)
			sess.GET("/:id/audit", calculationHandler.Audit)
			sess.GET("/:id/audit.xlsx", calculationHandler.AuditXLSX)
		}
	}

	return router
}
