package model

import (
	"time"

	"github.com/google/uuid"
)

// Video represents an uploaded audio asset extracted from a video.
// Transcript stays nil until transcription completes; an asset whose
// transcription step failed keeps a nil transcript and is never cleaned up.
type Video struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"-"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Transcript *string   `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
