package app

import (
	"database/sql"
	"fmt"
	"log"

	"echobox/internal/config"
	"echobox/internal/handlers"
	"echobox/internal/middleware"
	"echobox/internal/pdf"
	"echobox/internal/repositories"
	"echobox/internal/routes"
	"echobox/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.Auth.JWTSecret != "" {
		middleware.JWTKey = []byte(cfg.Auth.JWTSecret)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	authService := services.NewAuthService(userRepo)
	verificationService := services.NewVerificationService(userRepo, emailService)
	userService := services.NewUserService(userRepo, authService, verificationService)

	// Telegram notifications are optional
	var notifier services.Notifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		n, err := services.NewTelegramNotifier(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("telegram notifier disabled: %v", err)
		} else {
			notifier = n
		}
	}

	inboxService := services.NewInboxService(userRepo, messageRepo, notifier)

	var suggestHandler *handlers.SuggestHandler
	if cfg.GenAI.APIKey != "" {
		suggestionService, err := services.NewSuggestionService(cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			log.Printf("suggestion service disabled: %v", err)
		} else {
			suggestHandler = handlers.NewSuggestHandler(suggestionService)
		}
	}

	exporter := pdf.NewInboxExporter()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	verifyHandler := handlers.NewVerifyHandler(verificationService)
	messageHandler := handlers.NewMessageHandler(inboxService, userService, exporter, cfg.Inbox.MaxContentLength)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		verifyHandler,
		messageHandler,
		suggestHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
