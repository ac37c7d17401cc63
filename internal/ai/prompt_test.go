package ai

import "testing"

func TestResolvePrompt(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		transcript string
		want       string
	}{
		{
			name:       "single occurrence",
			template:   "Summarize: {transcription}",
			transcript: "hello world",
			want:       "Summarize: hello world",
		},
		{
			name:       "every occurrence replaced",
			template:   "{transcription} and again {transcription}",
			transcript: "x",
			want:       "x and again x",
		},
		{
			name:       "surrounding text untouched",
			template:   "before '''{transcription}''' after",
			transcript: "mid",
			want:       "before '''mid''' after",
		},
		{
			name:       "no placeholder",
			template:   "static prompt",
			transcript: "ignored",
			want:       "static prompt",
		},
		{
			name:       "empty transcript",
			template:   "text: {transcription}",
			transcript: "",
			want:       "text: ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolvePrompt(tc.template, tc.transcript); got != tc.want {
				t.Errorf("ResolvePrompt(%q, %q) = %q, want %q", tc.template, tc.transcript, got, tc.want)
			}
		})
	}
}
