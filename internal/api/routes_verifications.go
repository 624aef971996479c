package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/handlers"
)

func registerVerificationRoutes(api *gin.RouterGroup, handler *handlers.EmailVerificationHandler) {
	group := api.Group("/email-verifications")
	{
		group.POST("", handler.Request)
		group.POST("/verify", handler.Verify)
		group.GET("/status", handler.Status)
	}
}
