package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"uploadai/internal/ai"
	"uploadai/internal/api"
	"uploadai/internal/config"
	"uploadai/internal/db"
	"uploadai/internal/repository"
	"uploadai/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("shutting down due to error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		videos  repository.VideoRepository
		prompts repository.PromptRepository
	)
	if cfg.DatabaseURL != "" {
		sqldb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer sqldb.Close()
		videos = repository.NewPostgresVideoRepository(sqldb)
		prompts = repository.NewPostgresPromptRepository(sqldb)
		slog.Info("database connected")
	} else {
		slog.Info("DATABASE_URL not set, running with in-memory storage")
		videos = repository.NewMemoryVideoRepository()
		prompts = repository.NewMemoryPromptRepository(repository.SeedPrompts())
	}

	store, err := storage.NewAudioStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	aiClient, err := ai.NewClient(cfg.OpenAIKey, cfg.CompletionModel)
	if err != nil {
		return err
	}

	server := api.NewServer(videos, prompts, store, aiClient, aiClient, cfg.MaxUploadBytes)

	r := gin.Default()
	r.Use(corsMiddleware())
	server.RegisterRoutes(r)

	slog.Info("server running", "port", cfg.Port)
	return r.Run(":" + cfg.Port)
}

// corsMiddleware allows all origins. Development posture.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
