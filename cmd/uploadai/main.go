// Command uploadai drives the full pipeline from the terminal: convert a
// local video to mp3, upload it, request a transcription, then stream a
// templated completion to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"uploadai/internal/ai"
	"uploadai/internal/client"
	"uploadai/internal/media"
)

func main() {
	if err := run(); err != nil {
		slog.Error("uploadai failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL     = flag.String("server", "http://localhost:3333", "ingestion service base URL")
		videoPath   = flag.String("video", "", "path to the video file to upload")
		promptHint  = flag.String("hint", "", "keywords mentioned in the video, comma separated")
		templateIdx = flag.Int("template", 0, "index of the prompt template to use")
		temperature = flag.Float64("temperature", 0.5, "completion temperature (0.0-1.0)")
	)
	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		return errors.New("-video is required")
	}

	ctx := context.Background()

	converter, err := media.NewConverter()
	if err != nil {
		return err
	}
	converter.OnProgress = func(percent int) {
		fmt.Fprintf(os.Stderr, "\rconverting... %3d%%", percent)
		if percent == 100 {
			fmt.Fprintln(os.Stderr)
		}
	}

	uploader := client.NewUploader(*baseURL, converter)
	uploader.OnStateChange = func(s client.State) {
		slog.Info("upload state", "state", s)
	}

	result, err := uploader.Upload(ctx, *videoPath, *promptHint)
	if err != nil {
		return err
	}

	fmt.Printf("video id: %s\n", result.VideoID)
	fmt.Printf("transcription: %s\n\n", result.Transcription)

	completer := client.NewCompleter(*baseURL)

	templates, err := completer.ListPrompts(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		slog.Info("no prompt templates seeded, nothing to complete")
		return nil
	}
	if *templateIdx < 0 || *templateIdx >= len(templates) {
		return fmt.Errorf("template index out of range: have %d templates", len(templates))
	}
	template := templates[*templateIdx]

	fmt.Printf("using template %q\n", template.Title)
	fmt.Printf("resolved prompt preview:\n%s\n\n", preview(ai.ResolvePrompt(template.Template, result.Transcription)))

	stream, err := completer.Stream(ctx, client.CompletionRequest{
		VideoID:     result.VideoID,
		Temperature: *temperature,
		Prompt:      template.Template,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	// Accumulate while printing so the full completion is available at the
	// end, same as the text area the stream feeds in the web UI.
	var completion strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading completion stream: %w", err)
		}
		completion.WriteString(chunk)
		fmt.Print(chunk)
	}
	fmt.Println()

	slog.Info("completion finished", "chars", completion.Len(), "busy", completer.Busy())
	return nil
}

func preview(s string) string {
	const max = 280
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
