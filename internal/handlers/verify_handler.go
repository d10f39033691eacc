package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"echobox/internal/services"
)

type VerifyHandler struct {
	verification services.VerificationService
}

func NewVerifyHandler(verification services.VerificationService) *VerifyHandler {
	return &VerifyHandler{verification: verification}
}

func (h *VerifyHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Code     string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// the client sends the username straight out of the URL path
	username, err := url.QueryUnescape(req.Username)
	if err != nil {
		username = req.Username
	}

	if _, err := h.verification.Verify(username, req.Code); err != nil {
		switch err {
		case services.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		case services.ErrCodeInvalid:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid verification code"})
		case services.ErrCodeExpired:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Verification code has expired"})
		default:
			log.Printf("[verify][code] username=%q err=%v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error verifying code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account verified successfully"})
}
