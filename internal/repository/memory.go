package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"uploadai/internal/apperr"
	"uploadai/internal/model"
)

// memoryVideoRepository keeps assets in a map. Used when DATABASE_URL is
// unset and by tests.
type memoryVideoRepository struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*model.Video
}

// NewMemoryVideoRepository creates an in-memory video repository.
func NewMemoryVideoRepository() VideoRepository {
	return &memoryVideoRepository{videos: make(map[uuid.UUID]*model.Video)}
}

func (r *memoryVideoRepository) Create(_ context.Context, v *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *v
	r.videos[v.ID] = &stored
	return nil
}

func (r *memoryVideoRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, apperr.NotFound("video")
	}
	// Return a copy to avoid races on the stored value.
	out := *v
	if v.Transcript != nil {
		t := *v.Transcript
		out.Transcript = &t
	}
	return &out, nil
}

func (r *memoryVideoRepository) SetTranscript(_ context.Context, id uuid.UUID, transcript string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return apperr.NotFound("video")
	}
	v.Transcript = &transcript
	return nil
}

type memoryPromptRepository struct {
	mu      sync.Mutex
	prompts []model.Prompt
}

// NewMemoryPromptRepository creates an in-memory prompt repository holding
// the given templates.
func NewMemoryPromptRepository(prompts []model.Prompt) PromptRepository {
	return &memoryPromptRepository{prompts: prompts}
}

func (r *memoryPromptRepository) List(_ context.Context) ([]model.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Prompt, len(r.prompts))
	copy(out, r.prompts)
	return out, nil
}
