package main

import (
	"log"

	"doc-chat/internal/config"
	"doc-chat/internal/handlers"
	"doc-chat/internal/logger"
	"doc-chat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	textSanitizer := services.NewTextSanitizer()
	documentProcessor := services.NewDocumentProcessor(textSanitizer, cfg.Extraction)
	sessionStore := services.NewSessionStore()
	openaiService := services.NewOpenAIService(cfg.OpenAI, cfg.Chat)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+handlers.SessionHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	chatHandler := handlers.NewChatHandler(documentProcessor, sessionStore, openaiService, cfg.Chat.ResponseMode)
	chatHandler.RegisterRoutes(router)

	logger.Info("🚀 Service listening on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
