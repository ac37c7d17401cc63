package ai

import "strings"

// TranscriptionPlaceholder is the substitution point inside prompt templates.
const TranscriptionPlaceholder = "{transcription}"

// ResolvePrompt replaces every occurrence of the placeholder with the
// transcript, leaving surrounding text untouched.
func ResolvePrompt(template, transcript string) string {
	return strings.ReplaceAll(template, TranscriptionPlaceholder, transcript)
}
