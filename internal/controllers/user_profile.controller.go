package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"bodylog/internal/middleware"
	"bodylog/internal/models"
	"bodylog/internal/repository"
)

type UserProfileController struct {
	repo            repository.UserProfileRepository
	measurementRepo repository.MeasurementRepository
}

func NewUserProfileController(repo repository.UserProfileRepository, measurementRepo repository.MeasurementRepository) *UserProfileController {
	return &UserProfileController{
		repo:            repo,
		measurementRepo: measurementRepo,
	}
}

// GetUserProfile godoc
// @Summary Get user profile
// @Description Retrieve the authenticated user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User profile retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Router /profile [get]
func (pc *UserProfileController) GetUserProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	profile, err := pc.repo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User profile retrieved successfully",
		"data":    profile,
	})
}

// CreateUserProfile godoc
// @Summary Create user profile
// @Description Create a profile for the authenticated user
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.UserProfile true "Profile data"
// @Success 201 {object} map[string]interface{} "Profile created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Failed to create profile"
// @Router /profile [post]
func (pc *UserProfileController) CreateUserProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	profile.UserID = c.MustGet(middleware.ContextUserID).(uint)

	if err := pc.repo.Create(&profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Profile created successfully",
		"data":    profile,
	})
}

// UpdateUserProfile godoc
// @Summary Update user profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.UserProfile true "Profile data"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 500 {object} map[string]interface{} "Failed to update profile"
// @Router /profile [put]
func (pc *UserProfileController) UpdateUserProfile(c *gin.Context) {
	var incoming models.UserProfile
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	profile, err := pc.repo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	incoming.ID = profile.ID
	incoming.UserID = userID

	if err := pc.repo.Update(&incoming); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   "Database update failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    incoming,
	})
}

// PatchUserProfile godoc
// @Summary Partially update user profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fields body map[string]interface{} true "Fields to update"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Failed to update profile"
// @Router /profile [patch]
func (pc *UserProfileController) PatchUserProfile(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	delete(data, "user_id")
	delete(data, "id")

	userID := c.MustGet(middleware.ContextUserID).(uint)

	if err := pc.repo.Patch(userID, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   "Database update failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    nil,
	})
}

// DeleteUserProfile godoc
// @Summary Delete user profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile deleted successfully"
// @Failure 500 {object} map[string]interface{} "Failed to delete profile"
// @Router /profile [delete]
func (pc *UserProfileController) DeleteUserProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if err := pc.repo.DeleteByUserID(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete profile",
			"error":   "Database deletion failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile deleted successfully",
		"data":    nil,
	})
}

// GetFamilyOverview godoc
// @Summary List public profiles with their latest measurement
// @Description The family comparison view: every profile that opted in, with its most recent scale reading.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Family overview retrieved successfully"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve family overview"
// @Router /profile/family [get]
func (pc *UserProfileController) GetFamilyOverview(c *gin.Context) {
	profiles, err := pc.repo.FindPublicProfiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve family overview",
			"error":   err.Error(),
		})
		return
	}

	type familyEntry struct {
		Profile models.UserProfile  `json:"profile"`
		Latest  *models.Measurement `json:"latest_measurement"`
	}

	entries := make([]familyEntry, 0, len(profiles))
	for _, profile := range profiles {
		entry := familyEntry{Profile: profile}
		// A public profile without measurements still shows up.
		if latest, err := pc.measurementRepo.FindLatestByUserID(profile.UserID); err == nil {
			entry.Latest = latest
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Family overview retrieved successfully",
		"data":    entries,
	})
}

// GetProfileShareQR godoc
// @Summary Get a QR code linking to a public profile
// @Tags profile
// @Produce png
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {file} binary "QR code PNG"
// @Failure 400 {object} map[string]interface{} "Invalid user ID"
// @Failure 403 {object} map[string]interface{} "Profile is not public"
// @Failure 500 {object} map[string]interface{} "Failed to generate QR code"
// @Router /profile/{user_id}/qr [get]
func (pc *UserProfileController) GetProfileShareQR(c *gin.Context) {
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
		public, err := pc.repo.IsPublic(uint(targetID))
		if err != nil || !public {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Profile is not public",
				"error":   "This user has not shared their profile",
			})
			return
		}
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	shareURL := fmt.Sprintf("%s/family/%d", baseURL, targetID)

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate QR code",
			"error":   err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
