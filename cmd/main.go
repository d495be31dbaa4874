package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bodylog/database"
	"bodylog/docs"
	"bodylog/internal/cache"
	"bodylog/internal/controllers"
	"bodylog/internal/repository"
	"bodylog/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Swagger Documentation
	docs.SwaggerInfo.Title = "BodyLog API"
	docs.SwaggerInfo.Description = "Personal and family body-composition tracking API."
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	resetPasswordRepo := repository.NewResetPasswordRepository(database.DB)
	verificationRepo := repository.NewVerificationRepository(database.DB)
	profileRepo := repository.NewUserProfileRepository(database.DB)
	measurementRepo := repository.NewMeasurementRepository(database.DB)

	// Chart cache is optional; the API works without Redis.
	chartCache, err := cache.NewChartCache()
	if err != nil {
		log.Printf("Warning: chart cache unavailable: %v", err)
		chartCache = nil
	} else {
		defer chartCache.Close()
	}

	pageSize := 10
	if raw := os.Getenv("MEASUREMENT_PAGE_SIZE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}

	// Controllers
	userController := controllers.NewUserController(userRepo, resetPasswordRepo)
	verificationController := controllers.NewVerificationController(verificationRepo, userRepo)
	oauthController := controllers.NewOauthController(userRepo)
	measurementController := controllers.NewMeasurementController(measurementRepo, profileRepo, chartCache, pageSize)
	chartsController := controllers.NewChartsController(measurementRepo, profileRepo, chartCache)
	profileController := controllers.NewUserProfileController(profileRepo, measurementRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "BodyLog API is running",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	routes.RegisterUserRoutes(router, userController)
	routes.RegisterVerificationRoutes(router, verificationController)
	routes.RegisterOauthRoutes(router, oauthController)
	routes.RegisterMeasurementRoutes(router, measurementController)
	routes.RegisterChartsRoutes(router, chartsController)
	routes.RegisterUserProfileRoutes(router, profileController)
	routes.RegisterSwaggerRoutes(router)

	router.GET("/debug/database", func(c *gin.Context) {
		sqlDB, err := database.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}

		var result int
		row := sqlDB.QueryRowContext(c.Request.Context(), "SELECT 1")
		err = row.Scan(&result)
		c.JSON(200, gin.H{
			"database_health": err == nil && result == 1,
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("BodyLog API started on port %s", port)
	log.Printf("API Documentation: http://localhost:%s/swagger/index.html", port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
