package routes

import (
	"github.com/gin-gonic/gin"

	"whisper-transcription/internal/api/v1/handlers"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, sessionHandler *handlers.SessionHandler) {
	router.GET("/state", sessionHandler.State)
	router.POST("/select", sessionHandler.Select)
	router.POST("/submit", sessionHandler.Submit)
}
