package controllers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"bodylog/internal/cache"
	"bodylog/internal/collection"
	"bodylog/internal/middleware"
	"bodylog/internal/models"
	"bodylog/internal/repository"
	"bodylog/internal/utils"
)

type CreateMeasurementRequest struct {
	MeasuredAt      *time.Time `json:"measured_at"`
	WeightKg        float64    `json:"weight_kg" binding:"required,gte=2,lte=180"`
	BodyFatPct      *float64   `json:"body_fat_pct" binding:"omitempty,gte=0,lte=100"`
	BodyWaterPct    *float64   `json:"body_water_pct" binding:"omitempty,gte=0,lte=100"`
	MuscleMassPct   *float64   `json:"muscle_mass_pct" binding:"omitempty,gte=0,lte=100"`
	BoneMassPct     *float64   `json:"bone_mass_pct" binding:"omitempty,gte=0,lte=100"`
	RecommendedKcal *int       `json:"recommended_kcal" binding:"omitempty,gte=500,lte=10000"`
	BMI             *float64   `json:"bmi" binding:"omitempty,gte=10,lte=90"`
	Notes           string     `json:"notes" binding:"omitempty,max=500"`
}

// MeasurementController serves measurement CRUD. Each user gets one
// collection manager holding their loaded window, so repeated list calls
// page through without refetching everything.
type MeasurementController struct {
	repo        repository.MeasurementRepository
	profileRepo repository.UserProfileRepository
	chartCache  *cache.ChartCache
	source      collection.Source
	pageSize    int

	mu          sync.Mutex
	collections map[uint]*collection.Manager
}

func NewMeasurementController(repo repository.MeasurementRepository, profileRepo repository.UserProfileRepository, chartCache *cache.ChartCache, pageSize int) *MeasurementController {
	if pageSize <= 0 {
		pageSize = collection.DefaultPageSize
	}
	return &MeasurementController{
		repo:        repo,
		profileRepo: profileRepo,
		chartCache:  chartCache,
		source:      collection.NewRepositorySource(repo),
		pageSize:    pageSize,
		collections: make(map[uint]*collection.Manager),
	}
}

func (mc *MeasurementController) getCollection(userID uint) *collection.Manager {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mgr, ok := mc.collections[userID]
	if !ok {
		mgr = collection.NewManager(mc.source, userID, mc.pageSize)
		mc.collections[userID] = mgr
	}
	return mgr
}

// CreateMeasurement godoc
// @Summary Log a new measurement
// @Description Store a scale reading for the authenticated user. measured_at defaults to now; BMI is derived from the profile height when the scale did not report it.
// @Tags measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurement body CreateMeasurementRequest true "Measurement data"
// @Success 201 {object} map[string]interface{} "Measurement created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Failed to create measurement"
// @Router /measurements [post]
func (mc *MeasurementController) CreateMeasurement(c *gin.Context) {
	var req CreateMeasurementRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	measuredAt := time.Now()
	if req.MeasuredAt != nil {
		measuredAt = *req.MeasuredAt
	}

	bmi := req.BMI
	if bmi == nil {
		if profile, err := mc.profileRepo.FindByUserID(userID); err == nil && profile.HeightCm != nil {
			if v := utils.CalculateBMI(req.WeightKg, *profile.HeightCm); v > 0 {
				bmi = &v
			}
		}
	}

	measurement := models.Measurement{
		UserID:          userID,
		MeasuredAt:      measuredAt,
		WeightKg:        req.WeightKg,
		BodyFatPct:      req.BodyFatPct,
		BodyWaterPct:    req.BodyWaterPct,
		MuscleMassPct:   req.MuscleMassPct,
		BoneMassPct:     req.BoneMassPct,
		RecommendedKcal: req.RecommendedKcal,
		BMI:             bmi,
		Notes:           req.Notes,
	}

	stored, err := mc.getCollection(userID).Create(measurement)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create measurement",
			"error":   err.Error(),
		})
		return
	}

	mc.chartCache.InvalidateUser(userID)

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Measurement created successfully",
		"data":    stored,
	})
}

// ListMeasurements godoc
// @Summary List the authenticated user's measurements
// @Description Returns the loaded window, newest first. Pass more=true to append the next page instead of reloading from the top.
// @Tags measurements
// @Produce json
// @Security BearerAuth
// @Param more query bool false "Append the next page"
// @Success 200 {object} map[string]interface{} "Measurements retrieved successfully"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve measurements"
// @Router /measurements [get]
func (mc *MeasurementController) ListMeasurements(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	mgr := mc.getCollection(userID)

	if c.Query("more") == "true" {
		mgr.LoadMore()
	} else {
		mgr.Refresh()
	}

	if errMsg := mgr.LastError(); errMsg != "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve measurements",
			"error":   errMsg,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Measurements retrieved successfully",
		"data": gin.H{
			"measurements": mgr.Records(),
			"total_count":  mgr.TotalCount(),
			"has_more":     mgr.HasMore(),
		},
	})
}

// GetLatestMeasurement godoc
// @Summary Get the most recent measurement
// @Tags measurements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Measurement retrieved successfully"
// @Failure 404 {object} map[string]interface{} "No measurements found"
// @Router /measurements/latest [get]
func (mc *MeasurementController) GetLatestMeasurement(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	measurement, err := mc.repo.FindLatestByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "No measurements found",
			"error":   "Log a measurement first",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Measurement retrieved successfully",
		"data":    measurement,
	})
}

// GetUserMeasurements godoc
// @Summary List another user's measurements
// @Description Page through a family member's measurements. Only allowed when that user's profile is public, unless it is your own.
// @Tags measurements
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size"
// @Success 200 {object} map[string]interface{} "Measurements retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid user ID"
// @Failure 403 {object} map[string]interface{} "Profile is not public"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve measurements"
// @Router /measurements/user/{user_id} [get]
func (mc *MeasurementController) GetUserMeasurements(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid user ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	if uint(targetID) != userID {
		public, err := mc.profileRepo.IsPublic(uint(targetID))
		if err != nil || !public {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Profile is not public",
				"error":   "This user has not shared their measurements",
			})
			return
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(mc.pageSize)))
	if perPage < 1 || perPage > 100 {
		perPage = mc.pageSize
	}

	measurements, total, err := mc.repo.FetchPage(uint(targetID), (page-1)*perPage, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve measurements",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Measurements retrieved successfully",
		"data": gin.H{
			"measurements": measurements,
			"total_count":  total,
			"has_more":     int64(page*perPage) < total,
		},
	})
}

// GetMeasurementByID godoc
// @Summary Get a single measurement
// @Tags measurements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Measurement ID"
// @Success 200 {object} map[string]interface{} "Measurement retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid measurement ID"
// @Failure 403 {object} map[string]interface{} "Profile is not public"
// @Failure 404 {object} map[string]interface{} "Measurement not found"
// @Router /measurements/{id} [get]
func (mc *MeasurementController) GetMeasurementByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid measurement ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	measurement, err := mc.repo.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Measurement not found",
			"error":   "No measurement exists with the provided ID",
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	if measurement.UserID != userID {
		public, err := mc.profileRepo.IsPublic(measurement.UserID)
		if err != nil || !public {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Profile is not public",
				"error":   "This user has not shared their measurements",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Measurement retrieved successfully",
		"data":    measurement,
	})
}

// DeleteMeasurement godoc
// @Summary Delete a measurement
// @Tags measurements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Measurement ID"
// @Success 200 {object} map[string]interface{} "Measurement deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid measurement ID"
// @Failure 403 {object} map[string]interface{} "Not the owner"
// @Failure 404 {object} map[string]interface{} "Measurement not found"
// @Failure 500 {object} map[string]interface{} "Failed to delete measurement"
// @Router /measurements/{id} [delete]
func (mc *MeasurementController) DeleteMeasurement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid measurement ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	measurement, err := mc.repo.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Measurement not found",
			"error":   "No measurement exists with the provided ID",
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	if measurement.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "Not the owner",
			"error":   "You can only delete your own measurements",
		})
		return
	}

	if err := mc.getCollection(userID).Remove(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete measurement",
			"error":   err.Error(),
		})
		return
	}

	mc.chartCache.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Measurement deleted successfully",
		"data":    nil,
	})
}
