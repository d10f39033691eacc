package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"echobox/internal/handlers"
	"echobox/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	verifyHandler *handlers.VerifyHandler,
	messageHandler *handlers.MessageHandler,
	suggestHandler *handlers.SuggestHandler, // may be nil when no API key is configured
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public
	api := r.Group("/api")
	{
		api.POST("/sign-up", userHandler.SignUp)
		api.POST("/sign-in", authHandler.SignIn)
		api.POST("/verify-code", verifyHandler.VerifyCode)
		api.GET("/check-username", userHandler.CheckUsername)
		api.POST("/send-message", messageHandler.SendMessage)

		if suggestHandler != nil {
			api.POST("/suggest-messages", suggestHandler.SuggestMessages)
			api.GET("/suggest-messages", suggestHandler.SuggestMessagesJSON)
		}
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	auth := r.Group("/api")
	{
		auth.POST("/sign-out", authHandler.SignOut)
		auth.GET("/get-messages", messageHandler.GetMessages)
		auth.GET("/accept-messages", messageHandler.GetAcceptMessages)
		auth.POST("/accept-messages", messageHandler.SetAcceptMessages)
		auth.DELETE("/delete-message/:id", messageHandler.DeleteMessage)
		auth.GET("/export-messages", messageHandler.ExportMessages)
		auth.POST("/telegram-link", userHandler.TelegramLink)
	}

	return r
}
