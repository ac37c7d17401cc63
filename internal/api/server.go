// Package api exposes the REST surface: prompt listing, asset upload,
// transcription and streamed completion.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"uploadai/internal/ai"
	"uploadai/internal/repository"
	"uploadai/internal/storage"
)

// Transcriber converts a stored audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, prompt string) (string, error)
}

// CompletionStreamer opens a token stream for a resolved prompt.
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, prompt string, temperature float32) (ai.TokenStream, error)
}

// Server holds the handler dependencies. Everything is injected at
// construction so tests can substitute fakes.
type Server struct {
	videos         repository.VideoRepository
	prompts        repository.PromptRepository
	store          *storage.AudioStore
	transcriber    Transcriber
	completions    CompletionStreamer
	maxUploadBytes int64
}

// NewServer wires the handler dependencies together.
func NewServer(
	videos repository.VideoRepository,
	prompts repository.PromptRepository,
	store *storage.AudioStore,
	transcriber Transcriber,
	completions CompletionStreamer,
	maxUploadBytes int64,
) *Server {
	return &Server{
		videos:         videos,
		prompts:        prompts,
		store:          store,
		transcriber:    transcriber,
		completions:    completions,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers all endpoints on the engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.healthCheck)
	r.GET("/prompts", s.listPrompts)
	r.POST("/videos", s.uploadVideo)
	r.GET("/videos/:id", s.getVideo)
	r.POST("/videos/:id/transcription", s.createTranscription)
	r.POST("/ai/complete", s.generateCompletion)
}
