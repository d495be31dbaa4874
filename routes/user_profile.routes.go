package routes

import (
	"bodylog/internal/controllers"
	"bodylog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterUserProfileRoutes(router *gin.Engine, userProfileController *controllers.UserProfileController) {
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware())
	{
		profileRoutes.GET("/", userProfileController.GetUserProfile)
		profileRoutes.POST("/", userProfileController.CreateUserProfile)
		profileRoutes.PUT("/", userProfileController.UpdateUserProfile)
		profileRoutes.PATCH("/", userProfileController.PatchUserProfile)
		profileRoutes.DELETE("/", userProfileController.DeleteUserProfile)
		profileRoutes.GET("/family", userProfileController.GetFamilyOverview)
		profileRoutes.GET("/:user_id/qr", userProfileController.GetProfileShareQR)
	}
}
