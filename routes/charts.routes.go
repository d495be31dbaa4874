package routes

import (
	"bodylog/internal/controllers"
	"bodylog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterChartsRoutes(router *gin.Engine, chartsController *controllers.ChartsController) {
	chartsRoutes := router.Group("/charts")
	chartsRoutes.Use(middleware.AuthMiddleware())
	{
		chartsRoutes.GET("/:metric", chartsController.GetDailySeries)
	}
}
