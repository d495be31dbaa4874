package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bodylog/internal/cache"
	"bodylog/internal/charts"
	"bodylog/internal/middleware"
	"bodylog/internal/repository"
)

const maxChartDays = 366

type ChartsController struct {
	repo        repository.MeasurementRepository
	profileRepo repository.UserProfileRepository
	chartCache  *cache.ChartCache
}

func NewChartsController(repo repository.MeasurementRepository, profileRepo repository.UserProfileRepository, chartCache *cache.ChartCache) *ChartsController {
	return &ChartsController{
		repo:        repo,
		profileRepo: profileRepo,
		chartCache:  chartCache,
	}
}

// GetDailySeries godoc
// @Summary Get a day-bucketed chart series
// @Description Returns the chosen metric bucketed per local calendar day, averaged within each day, oldest first. Pass user_id to chart a public family profile.
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param metric path string true "Metric name" Enums(weight, body_fat, body_water, muscle_mass, bone_mass, recommended_kcal, bmi)
// @Param days query int false "Number of most recent days (default 30)"
// @Param user_id query int false "Chart another user (public profiles only)"
// @Success 200 {object} map[string]interface{} "Chart data retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Unknown metric"
// @Failure 403 {object} map[string]interface{} "Profile is not public"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve chart data"
// @Router /charts/{metric} [get]
func (cc *ChartsController) GetDailySeries(c *gin.Context) {
	metric, ok := charts.ParseMetric(c.Param("metric"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Unknown metric",
			"error":   "Metric must be one of: weight, body_fat, body_water, muscle_mass, bone_mass, recommended_kcal, bmi",
		})
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 {
		days = 30
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	targetID := userID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid user ID",
				"error":   "ID must be a valid positive integer",
			})
			return
		}
		targetID = uint(parsed)
	}

	if targetID != userID {
		public, err := cc.profileRepo.IsPublic(targetID)
		if err != nil || !public {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Profile is not public",
				"error":   "This user has not shared their measurements",
			})
			return
		}
	}

	if points, hit, err := cc.chartCache.GetSeries(targetID, metric, days); err == nil && hit {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Chart data retrieved successfully",
			"data":    points,
		})
		return
	} else if err != nil {
		log.Printf("chart cache read failed: %v", err)
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	records, err := cc.repo.FindByUserIDAndDateRange(targetID, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve chart data",
			"error":   err.Error(),
		})
		return
	}

	points := charts.DailySeries(records, metric, days)

	if err := cc.chartCache.StoreSeries(targetID, metric, days, points); err != nil {
		log.Printf("chart cache write failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Chart data retrieved successfully",
		"data":    points,
	})
}
