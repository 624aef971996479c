package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/handlers"
)

func registerCompanyRoutes(api *gin.RouterGroup, handler *handlers.CompanyHandler) {
	companies := api.Group("/companies")
	{
		companies.GET("", handler.Search)
		companies.GET("/resolve", handler.Resolve)
	}
}
