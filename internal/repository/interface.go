package repository

import (
	"context"

	"github.com/google/uuid"

	"uploadai/internal/model"
)

// VideoRepository defines data access for uploaded audio assets.
type VideoRepository interface {
	// Create persists a new asset with transcription unset.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves an asset by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// SetTranscript stores the transcription for an asset, replacing any
	// previous value.
	SetTranscript(ctx context.Context, id uuid.UUID, transcript string) error
}

// PromptRepository defines read access to the seeded prompt templates.
type PromptRepository interface {
	// List returns all templates. An empty store yields an empty slice.
	List(ctx context.Context) ([]model.Prompt, error)
}
