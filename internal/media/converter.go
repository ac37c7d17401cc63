// Package media wraps ffmpeg for audio extraction. The adapter takes raw
// video bytes and returns a compressed mp3 track; everything else (codec
// selection, bitrate) is fixed.
package media

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"uploadai/internal/apperr"
)

// MimeType of every conversion result.
const MimeType = "audio/mpeg"

const audioBitrate = "20k"

// Converter extracts the audio track of a video as mp3.
type Converter struct {
	ffmpegPath  string
	ffprobePath string

	// OnProgress, when set, receives coarse progress updates in 0..100.
	// Updates are best-effort and not required for correctness.
	OnProgress func(percent int)
}

// NewConverter locates ffmpeg (and ffprobe for progress reporting) on PATH.
func NewConverter() (*Converter, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, apperr.Transcode("looking for `ffmpeg`", err)
	}
	// ffprobe is optional; without it progress stays coarse (0 then 100).
	ffprobe, _ := exec.LookPath("ffprobe")
	return &Converter{ffmpegPath: ffmpeg, ffprobePath: ffprobe}, nil
}

// Convert transcodes video bytes into an mp3 byte buffer. A failure is
// terminal for the attempt; the caller decides whether to try again.
func (c *Converter) Convert(ctx context.Context, video []byte) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "uploadai-convert-*")
	if err != nil {
		return nil, apperr.Transcode("creating work dir", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input.mp4")
	outputPath := filepath.Join(workDir, "output.mp3")

	if err := os.WriteFile(inputPath, video, 0o644); err != nil {
		return nil, apperr.Transcode("writing input file", err)
	}

	durationUS := c.probeDurationMicros(ctx, inputPath)
	c.reportProgress(0)

	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", inputPath,
		"-map", "0:a",
		"-b:a", audioBitrate,
		"-acodec", "libmp3lame",
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperr.Transcode("attaching ffmpeg stdout", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, apperr.Transcode("starting ffmpeg", err)
	}

	c.consumeProgress(stdout, durationUS)

	if err := cmd.Wait(); err != nil {
		slog.Error("ffmpeg failed", "err", err, "stderr", stderr.String())
		return nil, apperr.Transcode("running ffmpeg", err)
	}

	audio, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, apperr.Transcode("reading output file", err)
	}
	if len(audio) == 0 {
		return nil, apperr.Transcode("ffmpeg produced no audio", nil)
	}

	c.reportProgress(100)
	slog.Info("conversion finished", "inputBytes", len(video), "outputBytes", len(audio))
	return audio, nil
}

func (c *Converter) reportProgress(percent int) {
	if c.OnProgress != nil {
		c.OnProgress(percent)
	}
}

// consumeProgress reads ffmpeg's -progress key=value stream and turns
// out_time_us into a percentage of the probed duration.
func (c *Converter) consumeProgress(r io.Reader, durationUS int64) {
	scanner := bufio.NewScanner(r)
	last := 0
	for scanner.Scan() {
		percent, ok := parseProgressLine(scanner.Text(), durationUS)
		if ok && percent > last {
			last = percent
			c.reportProgress(percent)
		}
	}
}

// parseProgressLine extracts a percentage from a single "out_time_us=N" line.
func parseProgressLine(line string, durationUS int64) (int, bool) {
	if durationUS <= 0 {
		return 0, false
	}
	value, found := strings.CutPrefix(strings.TrimSpace(line), "out_time_us=")
	if !found {
		return 0, false
	}
	us, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	percent := int(us * 100 / durationUS)
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent, true
}

// probeDurationMicros asks ffprobe for the container duration. Returns 0
// when the duration cannot be determined.
func (c *Converter) probeDurationMicros(ctx context.Context, path string) int64 {
	if c.ffprobePath == "" {
		return 0
	}

	out, err := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	).Output()
	if err != nil {
		return 0
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0
	}
	return int64(seconds * 1e6)
}
