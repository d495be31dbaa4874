package routes

import (
	"bodylog/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterOauthRoutes(router *gin.Engine, oauthController *controllers.OauthController) {
	oauthRoutes := router.Group("/oauth")
	{
		oauthRoutes.POST("/google", oauthController.GoogleAuth)
	}
}
