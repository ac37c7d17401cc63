package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"uploadai/internal/ai"
	"uploadai/internal/apperr"
	"uploadai/internal/model"
)

var allowedExtensions = []string{".mp4", ".mov", ".webm", ".mkv", ".mp3", ".m4a", ".wav", ".ogg"}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.StatusFor(err), gin.H{"error": err.Error()})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "uploadai"})
}

// listPrompts returns every stored template. No filtering, no pagination;
// the set is small and static.
func (s *Server) listPrompts(c *gin.Context) {
	prompts, err := s.prompts.List(c.Request.Context())
	if err != nil {
		slog.Error("listing prompts", "err", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prompts)
}

// uploadVideo stores a multipart audio upload and returns the new asset.
func (s *Server) uploadVideo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperr.Validation("file is required"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			valid = true
			break
		}
	}
	if !valid {
		respondError(c, apperr.Validation("unsupported file format"))
		return
	}

	if file.Size > s.maxUploadBytes {
		respondError(c, apperr.Validation("file exceeds upload size limit"))
		return
	}

	id := uuid.New()
	path, err := s.store.Save(id, file)
	if err != nil {
		slog.Error("saving upload", "err", err)
		respondError(c, err)
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	video := &model.Video{
		ID:        id,
		Name:      file.Filename,
		Path:      path,
		MimeType:  mimeType,
		SizeBytes: file.Size,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.videos.Create(c.Request.Context(), video); err != nil {
		slog.Error("persisting video", "id", id, "err", err)
		respondError(c, err)
		return
	}

	slog.Info("video uploaded", "id", id, "name", video.Name, "bytes", video.SizeBytes)
	c.JSON(http.StatusOK, gin.H{"video": video})
}

// getVideo returns stored asset metadata.
func (s *Server) getVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("invalid video id"))
		return
	}

	video, err := s.videos.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"video": video})
}

type transcriptionRequest struct {
	Prompt string `json:"prompt"`
}

// createTranscription runs the stored audio through the speech-to-text
// provider and persists the result. Calling it again overwrites the stored
// transcription with the latest result.
func (s *Server) createTranscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("invalid video id"))
		return
	}

	// The prompt hint is optional; an absent body means no hint.
	req := transcriptionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, apperr.Validation("malformed request body"))
		return
	}

	video, err := s.videos.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	transcript, err := s.transcriber.Transcribe(c.Request.Context(), video.Path, req.Prompt)
	if err != nil {
		slog.Error("transcribing video", "id", id, "err", err)
		respondError(c, err)
		return
	}

	if err := s.videos.SetTranscript(c.Request.Context(), id, transcript); err != nil {
		slog.Error("saving transcript", "id", id, "err", err)
		respondError(c, err)
		return
	}

	slog.Info("transcription stored", "id", id, "chars", len(transcript))
	c.JSON(http.StatusOK, gin.H{"transcription": transcript})
}

type completionRequest struct {
	VideoID     string   `json:"videoId" binding:"required"`
	Temperature *float64 `json:"temperature" binding:"required"`
	Prompt      string   `json:"prompt" binding:"required"`
}

// generateCompletion resolves the prompt template against the stored
// transcription and relays the provider's token stream unbuffered.
func (s *Server) generateCompletion(c *gin.Context) {
	req := completionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("videoId, temperature and prompt are required"))
		return
	}

	if *req.Temperature < 0.0 || *req.Temperature > 1.0 {
		respondError(c, apperr.Validation("temperature must be between 0.0 and 1.0"))
		return
	}

	id, err := uuid.Parse(req.VideoID)
	if err != nil {
		respondError(c, apperr.Validation("invalid video id"))
		return
	}

	video, err := s.videos.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if video.Transcript == nil {
		respondError(c, apperr.NotFound("video transcription"))
		return
	}

	resolved := ai.ResolvePrompt(req.Prompt, *video.Transcript)

	stream, err := s.completions.StreamCompletion(c.Request.Context(), resolved, float32(*req.Temperature))
	if err != nil {
		slog.Error("opening completion stream", "id", id, "err", err)
		respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			// Headers are already out; all we can do is stop the stream.
			slog.Error("relaying completion stream", "id", id, "err", err)
			return false
		}
		if chunk != "" {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return false
			}
		}
		return true
	})
}
