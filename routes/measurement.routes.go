package routes

import (
	"bodylog/internal/controllers"
	"bodylog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterMeasurementRoutes(router *gin.Engine, measurementController *controllers.MeasurementController) {
	measurementRoutes := router.Group("/measurements")
	measurementRoutes.Use(middleware.AuthMiddleware())
	{
		measurementRoutes.POST("/", measurementController.CreateMeasurement)
		measurementRoutes.GET("/", measurementController.ListMeasurements)
		measurementRoutes.GET("/latest", measurementController.GetLatestMeasurement)
		measurementRoutes.GET("/user/:user_id", measurementController.GetUserMeasurements)
		measurementRoutes.GET("/:id", measurementController.GetMeasurementByID)
		measurementRoutes.DELETE("/:id", measurementController.DeleteMeasurement)
	}
}
