package repository

import (
	"github.com/google/uuid"

	"uploadai/internal/model"
)

// SeedPrompts returns the stock templates used when running without a
// database. The Postgres path seeds the same rows via migrations.
func SeedPrompts() []model.Prompt {
	return []model.Prompt{
		{
			ID:    uuid.MustParse("4a3b68ae-8e26-4c2a-b156-0c6ec5bb6d6c"),
			Title: "YouTube title",
			Template: "Generate three catchy, SEO-friendly titles for the video below.\n\n" +
				"Transcription:\n'''{transcription}'''\n\n" +
				"Return only the three titles as a plain list.",
		},
		{
			ID:    uuid.MustParse("0b20e9ec-35a9-4d49-b9f1-0f64b7e51c9a"),
			Title: "YouTube description",
			Template: "Write a concise first-person description for the video below, highlighting the main topics.\n\n" +
				"Transcription:\n'''{transcription}'''\n\n" +
				"End with three lowercase hashtags.",
		},
	}
}
