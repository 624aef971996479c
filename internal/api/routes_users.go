package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/handlers"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler) {
	users := api.Group("/users")
	{
		users.POST("", handler.Create)
		users.GET("/by-email", handler.GetByEmail)
	}
}
