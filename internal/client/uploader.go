// Package client implements the HTTP client side of the pipeline: the
// upload state machine and the completion stream consumer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"sync"
	"time"

	"uploadai/internal/media"
)

// State of the upload chain.
type State string

const (
	StateWaiting    State = "waiting"
	StateConverting State = "converting"
	StateUploading  State = "uploading"
	StateGenerating State = "generating"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// next maps each non-terminal state to its successor in the happy path.
var next = map[State]State{
	StateWaiting:    StateConverting,
	StateConverting: StateUploading,
	StateUploading:  StateGenerating,
	StateGenerating: StateSuccess,
}

// CanTransition reports whether the machine allows moving from one state to
// another. StateError is reachable from every non-terminal state; StateSuccess
// resets to StateWaiting.
func CanTransition(from, to State) bool {
	if to == StateError {
		return from != StateSuccess && from != StateError
	}
	if from == StateSuccess {
		return to == StateWaiting
	}
	return next[from] == to
}

// Converter turns video bytes into compressed audio bytes.
type Converter interface {
	Convert(ctx context.Context, video []byte) ([]byte, error)
}

// UploadResult carries the identifiers produced by a completed chain.
type UploadResult struct {
	VideoID       string
	Transcription string
}

// Uploader drives the convert -> upload -> transcribe chain against the
// ingestion service. It is an explicit state machine: one chain at a time,
// failures land in StateError, recovery is manual.
type Uploader struct {
	baseURL   string
	hc        *http.Client
	converter Converter

	// ResetDelay is how long a successful chain shows StateSuccess before
	// flipping back to StateWaiting. Cosmetic only.
	ResetDelay time.Duration

	// OnStateChange, when set, observes every transition.
	OnStateChange func(State)

	mu    sync.Mutex
	state State
}

// NewUploader creates an uploader for the given service base URL.
func NewUploader(baseURL string, converter Converter) *Uploader {
	return &Uploader{
		baseURL:    baseURL,
		hc:         &http.Client{},
		converter:  converter,
		ResetDelay: 7 * time.Second,
		state:      StateWaiting,
	}
}

// State returns the current machine state.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *Uploader) transition(to State) error {
	u.mu.Lock()
	if !CanTransition(u.state, to) {
		from := u.state
		u.mu.Unlock()
		return fmt.Errorf("invalid transition %s -> %s", from, to)
	}
	u.state = to
	u.mu.Unlock()

	if u.OnStateChange != nil {
		u.OnStateChange(to)
	}
	return nil
}

func (u *Uploader) fail(err error) error {
	if terr := u.transition(StateError); terr != nil {
		slog.Error("state machine corrupt", "err", terr)
	}
	return err
}

// Reset moves an errored machine back to StateWaiting.
func (u *Uploader) Reset() {
	u.mu.Lock()
	u.state = StateWaiting
	u.mu.Unlock()
	if u.OnStateChange != nil {
		u.OnStateChange(StateWaiting)
	}
}

// Upload runs the full chain for the given video file. An empty path is a
// no-op: the machine stays in StateWaiting and no error is reported,
// mirroring a form submit without a selected file. The optional prompt hint
// biases speech recognition.
func (u *Uploader) Upload(ctx context.Context, videoPath, promptHint string) (*UploadResult, error) {
	if videoPath == "" {
		return nil, nil
	}
	if u.State() != StateWaiting {
		return nil, fmt.Errorf("upload already in progress (state %s)", u.State())
	}

	if err := u.transition(StateConverting); err != nil {
		return nil, err
	}

	video, err := os.ReadFile(videoPath)
	if err != nil {
		return nil, u.fail(fmt.Errorf("reading video file: %w", err))
	}

	audio, err := u.converter.Convert(ctx, video)
	if err != nil {
		return nil, u.fail(fmt.Errorf("converting video: %w", err))
	}

	if err := u.transition(StateUploading); err != nil {
		return nil, err
	}

	videoID, err := u.uploadAudio(ctx, audio)
	if err != nil {
		return nil, u.fail(fmt.Errorf("uploading audio: %w", err))
	}

	if err := u.transition(StateGenerating); err != nil {
		return nil, err
	}

	transcription, err := u.requestTranscription(ctx, videoID, promptHint)
	if err != nil {
		return nil, u.fail(fmt.Errorf("requesting transcription: %w", err))
	}

	if err := u.transition(StateSuccess); err != nil {
		return nil, err
	}

	time.AfterFunc(u.ResetDelay, func() {
		u.mu.Lock()
		reset := u.state == StateSuccess
		if reset {
			u.state = StateWaiting
		}
		u.mu.Unlock()
		if reset && u.OnStateChange != nil {
			u.OnStateChange(StateWaiting)
		}
	})

	return &UploadResult{VideoID: videoID, Transcription: transcription}, nil
}

// uploadAudio posts the converted track as a multipart upload under the
// "file" field, typed audio/mpeg, and returns the server-generated asset id.
func (u *Uploader) uploadAudio(ctx context.Context, audio []byte) (string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	// CreateFormFile would stamp the part application/octet-stream and the
	// server persists the part's type on the asset.
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.mp3"`)
	header.Set("Content-Type", media.MimeType)
	fw, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/videos", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload returned status %d: %s", resp.StatusCode, string(b))
	}

	var payload struct {
		Video struct {
			ID string `json:"id"`
		} `json:"video"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if payload.Video.ID == "" {
		return "", fmt.Errorf("upload response missing video id")
	}

	return payload.Video.ID, nil
}

func (u *Uploader) requestTranscription(ctx context.Context, videoID, promptHint string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{"prompt": promptHint})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/videos/%s/transcription", u.baseURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription returned status %d: %s", resp.StatusCode, string(b))
	}

	var payload struct {
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding transcription response: %w", err)
	}

	return payload.Transcription, nil
}
