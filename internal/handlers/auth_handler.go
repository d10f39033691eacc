package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"echobox/internal/middleware"
	"echobox/internal/models"
	"echobox/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// @Summary      Sign in
// @Description  Authenticates by username or email and returns a session token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	identifier := strings.TrimSpace(req.Identifier)

	user, err := h.authService.Authenticate(identifier, req.Password)
	if err != nil {
		switch err {
		case services.ErrNotVerified:
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Please verify your account before signing in"})
		case services.ErrUserNotFound, services.ErrInvalidCredentials:
			// same answer for both; don't leak which part was wrong
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid identifier or password"})
		default:
			log.Printf("[auth][sign-in] identifier=%q err=%v", identifier, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error signing in"})
		}
		return
	}

	identity := user.Identity()
	token, err := middleware.NewSessionToken(identity)
	if err != nil {
		log.Printf("[auth][sign-in] sign token failed for user_id=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate session token"})
		return
	}

	// cookie for the browser, token in the body for API clients
	c.SetCookie(middleware.SessionCookie, token, int(middleware.SessionTTL.Seconds()), "/", "", false, true)

	log.Printf("[auth][sign-in] success user_id=%d took=%s", user.ID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed in",
		"user":    identity,
		"token":   token,
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out"})
}
