package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCompletionStub(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ai/complete", func(w http.ResponseWriter, r *http.Request) {
		var req CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"malformed request body"}`, http.StatusBadRequest)
			return
		}
		if req.Temperature < 0 || req.Temperature > 1 {
			http.Error(w, `{"error":"temperature out of range"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			io.WriteString(w, chunk)
			flusher.Flush()
		}
	})
	mux.HandleFunc("GET /prompts", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]PromptTemplate{
			{ID: "1", Title: "YouTube title", Template: "t {transcription}"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func collect(t *testing.T, stream *CompletionStream) string {
	t.Helper()
	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String()
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		sb.WriteString(chunk)
	}
}

func TestStreamAccumulatesChunks(t *testing.T) {
	srv := newCompletionStub(t, []string{"Three ", "catchy ", "titles"})
	completer := NewCompleter(srv.URL)

	stream, err := completer.Stream(context.Background(), CompletionRequest{
		VideoID:     "v1",
		Temperature: 0.5,
		Prompt:      "p",
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if !completer.Busy() {
		t.Error("busy flag must be set while the stream is open")
	}

	got := collect(t, stream)
	if got != "Three catchy titles" {
		t.Errorf("accumulated completion = %q", got)
	}

	if err := stream.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if completer.Busy() {
		t.Error("busy flag must clear once the stream ends")
	}
}

// finalChunkReader yields all its data alongside io.EOF in a single read
// and rejects any read after that.
type finalChunkReader struct {
	data  []byte
	reads int
}

func (r *finalChunkReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads > 1 {
		return 0, fmt.Errorf("read after final chunk")
	}
	return copy(p, r.data), io.EOF
}

func (r *finalChunkReader) Close() error { return nil }

func TestRecvDeliversFinalChunkBeforeEOF(t *testing.T) {
	stream := &CompletionStream{body: &finalChunkReader{data: []byte("tail")}, buf: make([]byte, 4096)}

	chunk, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if chunk != "tail" {
		t.Errorf("final chunk = %q, want %q", chunk, "tail")
	}

	if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("Recv after final chunk = %v, want io.EOF", err)
	}
}

func TestStreamRejectsResubmissionWhileBusy(t *testing.T) {
	srv := newCompletionStub(t, []string{"x"})
	completer := NewCompleter(srv.URL)

	stream, err := completer.Stream(context.Background(), CompletionRequest{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if _, err := completer.Stream(context.Background(), CompletionRequest{Temperature: 0.5}); err == nil {
		t.Error("expected resubmission to fail while busy")
	}

	stream.Close()

	// After the prior stream ends a new one is allowed.
	again, err := completer.Stream(context.Background(), CompletionRequest{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Stream after close: %v", err)
	}
	again.Close()
}

func TestStreamSurfacesHTTPError(t *testing.T) {
	srv := newCompletionStub(t, nil)
	completer := NewCompleter(srv.URL)

	_, err := completer.Stream(context.Background(), CompletionRequest{Temperature: 2.0})
	if err == nil || !strings.Contains(err.Error(), "temperature out of range") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if completer.Busy() {
		t.Error("busy flag must not stay set after a failed submission")
	}
}

func TestStreamCancellation(t *testing.T) {
	srv := newCompletionStub(t, []string{"never ending"})
	completer := NewCompleter(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := completer.Stream(ctx, CompletionRequest{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	// Abandoning the connection is the only cancellation mechanism.
	cancel()
	stream.Close()

	if completer.Busy() {
		t.Error("busy flag must clear after close")
	}
}

func TestListPrompts(t *testing.T) {
	srv := newCompletionStub(t, nil)
	completer := NewCompleter(srv.URL)

	prompts, err := completer.ListPrompts(context.Background())
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 1 || prompts[0].Title != "YouTube title" {
		t.Errorf("unexpected prompts %v", prompts)
	}
}
