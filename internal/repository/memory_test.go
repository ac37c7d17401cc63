package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"uploadai/internal/apperr"
	"uploadai/internal/model"
)

func newTestVideo() *model.Video {
	return &model.Video{
		ID:        uuid.New(),
		Name:      "talk.mp3",
		Path:      "uploads/talk.mp3",
		MimeType:  "audio/mpeg",
		SizeBytes: 1234,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryVideoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepository()
	video := newTestVideo()

	if err := repo.Create(ctx, video); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Transcript != nil {
		t.Errorf("fresh asset must have transcription unset, got %q", *got.Transcript)
	}
	if got.Name != video.Name || got.SizeBytes != video.SizeBytes {
		t.Errorf("stored asset mismatch: got %+v", got)
	}
}

func TestMemoryVideoRepositorySetTranscriptOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepository()
	video := newTestVideo()

	if err := repo.Create(ctx, video); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetTranscript(ctx, video.ID, "first"); err != nil {
		t.Fatalf("SetTranscript: %v", err)
	}
	if err := repo.SetTranscript(ctx, video.ID, "second"); err != nil {
		t.Fatalf("SetTranscript: %v", err)
	}

	got, err := repo.GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Transcript == nil || *got.Transcript != "second" {
		t.Errorf("expected latest transcript to win, got %v", got.Transcript)
	}
}

func TestMemoryVideoRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepository()

	if _, err := repo.GetByID(ctx, uuid.New()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("GetByID on unknown id: got %v, want not-found", err)
	}
	if err := repo.SetTranscript(ctx, uuid.New(), "x"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("SetTranscript on unknown id: got %v, want not-found", err)
	}
}

func TestMemoryPromptRepositoryEmpty(t *testing.T) {
	repo := NewMemoryPromptRepository(nil)

	prompts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if prompts == nil || len(prompts) != 0 {
		t.Errorf("empty store must yield an empty slice, got %v", prompts)
	}
}

func TestSeedPromptsHavePlaceholder(t *testing.T) {
	for _, p := range SeedPrompts() {
		if p.Title == "" {
			t.Errorf("seed prompt %s has empty title", p.ID)
		}
		if !strings.Contains(p.Template, "{transcription}") {
			t.Errorf("seed prompt %q is missing the substitution placeholder", p.Title)
		}
	}
}
