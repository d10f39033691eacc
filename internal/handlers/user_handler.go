package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"echobox/internal/services"
)

type UserHandler struct {
	service services.UserService
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Sign up
// @Description  Registers an unverified account and emails a verification code
// @Tags         Users
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/sign-up [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if errs := services.ValidateUsername(req.Username); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username", "errors": errs})
		return
	}

	_, err := h.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrUsernameTaken:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already taken"})
		case services.ErrEmailTaken:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
		default:
			// covers the email-send failure; the row may already be persisted
			// and a later sign-up with the same email retries the code
			log.Printf("[users][sign-up] username=%q err=%v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error registering user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully. Verification code sent to email",
	})
}

func (h *UserHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if errs := services.ValidateUsername(username); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username", "errors": errs})
		return
	}

	available, err := h.service.CheckUsername(username)
	if err != nil {
		log.Printf("[users][check-username] username=%q err=%v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error checking username"})
		return
	}
	if !available {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Username is already taken"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Username is available"})
}

type telegramLinkRequest struct {
	ChatID int64 `json:"chat_id" binding:"required"`
	Enable bool  `json:"enable"`
}

// TelegramLink stores the chat where new-message notifications go.
func (h *UserHandler) TelegramLink(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	var req telegramLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.service.SetTelegramLink(identity.ID, req.ChatID, req.Enable); err != nil {
		log.Printf("[users][telegram-link] user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update telegram link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Telegram notifications updated"})
}
