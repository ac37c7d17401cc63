package model

import "github.com/google/uuid"

// Prompt is a reusable prompt template. The template body contains the
// {transcription} placeholder that gets replaced with an asset's transcript.
type Prompt struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Template string    `json:"template"`
}
