package controllers

import (
	"net/http"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"bodylog/internal/models"
	"bodylog/internal/repository"
)

const googleIssuer = "https://accounts.google.com"

type OauthController struct {
	userRepo repository.UserRepository
}

func NewOauthController(userRepo repository.UserRepository) *OauthController {
	return &OauthController{userRepo: userRepo}
}

// GoogleAuth godoc
// @Summary Sign in with a Google ID token
// @Description Verifies a Google ID token, creates the account on first sign-in, and returns a JWT
// @Tags oauth
// @Accept json
// @Produce json
// @Param token body object{token=string} true "Google ID token"
// @Success 200 {object} map[string]interface{} "Google authentication successful"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Invalid Google ID token"
// @Failure 500 {object} map[string]interface{} "Authentication failed"
// @Router /oauth/google [post]
func (oc *OauthController) GoogleAuth(c *gin.Context) {
	var authRequest struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&authRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	provider, err := oidc.NewProvider(c.Request.Context(), googleIssuer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to reach Google",
			"error":   err.Error(),
		})
		return
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: os.Getenv("GOOGLE_CLIENT_ID")})
	idToken, err := verifier.Verify(c.Request.Context(), authRequest.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid Google ID token",
			"error":   "Token verification failed",
		})
		return
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Email not found in token",
		})
		return
	}

	user, err := oc.userRepo.GetUserByEmail(claims.Email)
	if err != nil {
		// First Google sign-in creates the account.
		newUser := models.User{
			Email:    claims.Email,
			Name:     claims.Name,
			Password: "",
		}

		if err := oc.userRepo.CreateUser(&newUser); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to create user account",
				"error":   err.Error(),
			})
			return
		}
		if claims.EmailVerified {
			oc.userRepo.SetUserVerified(claims.Email)
		}
		user = &newUser
	}

	tokenString, err := IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Could not generate token",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Google authentication successful",
		"data":    tokenString,
	})
}
