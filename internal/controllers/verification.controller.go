package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bodylog/internal/models"
	"bodylog/internal/repository"
	"bodylog/internal/utils"
)

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type VerificationController struct {
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	mailConfig       utils.MailConfig
}

func NewVerificationController(verificationRepo repository.VerificationRepository, userRepo repository.UserRepository) *VerificationController {
	return &VerificationController{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		mailConfig:       utils.LoadMailConfig(),
	}
}

// SendVerificationCode godoc
// @Summary Send a verification code to user's email
// @Description Sends a 6-digit verification code to the specified email address
// @Tags verification
// @Accept json
// @Produce json
// @Param email body EmailRequest true "User email"
// @Success 200 {object} map[string]interface{} "Verification code sent successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Failure 500 {object} map[string]interface{} "Failed to create verification code"
// @Router /verification/get-code [post]
func (vc *VerificationController) SendVerificationCode(c *gin.Context) {
	var req EmailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	vc.sendForEmail(c, req.Email)
}

// VerifyCode godoc
// @Summary Verify an email with a code
// @Tags verification
// @Accept json
// @Produce json
// @Param verification body VerificationRequest true "Email and code"
// @Success 200 {object} map[string]interface{} "Email verified successfully"
// @Failure 400 {object} map[string]interface{} "Invalid or expired code"
// @Router /verification/verify [post]
func (vc *VerificationController) VerifyCode(c *gin.Context) {
	var req VerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	verification, err := vc.verificationRepo.FindByEmail(req.Email)
	if err != nil || verification.Code != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid verification code",
			"error":   "The code does not match",
		})
		return
	}

	if time.Now().After(verification.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Verification code expired",
			"error":   "Request a new code",
		})
		return
	}

	if err := vc.userRepo.SetUserVerified(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to verify user",
			"error":   "Database error",
		})
		return
	}

	vc.verificationRepo.DeleteByEmail(req.Email)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Email verified successfully",
		"data":    nil,
	})
}

// ResendVerificationCode godoc
// @Summary Resend the verification code
// @Tags verification
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} map[string]interface{} "Verification code sent successfully"
// @Failure 400 {object} map[string]interface{} "Missing email"
// @Router /verification/resend [get]
func (vc *VerificationController) ResendVerificationCode(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Missing email",
			"error":   "email query parameter is required",
		})
		return
	}

	vc.sendForEmail(c, email)
}

func (vc *VerificationController) sendForEmail(c *gin.Context, email string) {
	if _, err := vc.userRepo.GetUserByEmail(email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "User not found",
			"error":   "No account associated with this email",
		})
		return
	}

	code := utils.GenerateVerificationCode()
	vc.verificationRepo.DeleteByEmail(email)

	verification := &models.Verification{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	if err := vc.verificationRepo.CreateVerification(verification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create verification code",
			"error":   "Database error",
		})
		return
	}

	message := "Your BodyLog verification code is: " + code
	if err := utils.SendEmail(vc.mailConfig, email, "Verify your email", message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to send verification email",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Verification code sent successfully",
		"data":    nil,
	})
}
