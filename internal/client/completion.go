package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// CompletionRequest is one completion submission.
type CompletionRequest struct {
	VideoID     string  `json:"videoId"`
	Temperature float64 `json:"temperature"`
	Prompt      string  `json:"prompt"`
}

// CompletionStream is a lazy, finite sequence of completion text chunks.
// Recv returns io.EOF when upstream closes; Close abandons the connection,
// which is the only (best-effort) cancellation mechanism.
type CompletionStream struct {
	body    io.ReadCloser
	buf     []byte
	err     error
	onClose func()
	closed  bool
}

// Recv returns the next chunk of completion text. When a read yields both
// data and an error, the data is delivered first and the error is held for
// the following call.
func (s *CompletionStream) Recv() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	n, err := s.body.Read(s.buf)
	if n > 0 {
		s.err = err
		return string(s.buf[:n]), nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}

// Close releases the underlying connection and clears the owner's busy flag.
func (s *CompletionStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.body.Close()
	if s.onClose != nil {
		s.onClose()
	}
	return err
}

// Completer submits completion requests and consumes the token stream. Only
// one stream may be open at a time; resubmission is allowed once the prior
// stream ends.
type Completer struct {
	baseURL string
	hc      *http.Client

	mu   sync.Mutex
	busy bool
}

// NewCompleter creates a completer for the given service base URL.
func NewCompleter(baseURL string) *Completer {
	return &Completer{baseURL: baseURL, hc: &http.Client{}}
}

// Busy reports whether a stream is currently open.
func (c *Completer) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Stream submits a completion request and returns the resulting chunk
// stream. The caller must Close it; until then further submissions fail.
func (c *Completer) Stream(ctx context.Context, req CompletionRequest) (*CompletionStream, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, fmt.Errorf("completion already in progress")
	}
	c.busy = true
	c.mu.Unlock()

	stream, err := c.open(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		return nil, err
	}
	return stream, nil
}

func (c *Completer) open(ctx context.Context, req CompletionRequest) (*CompletionStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai/complete", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("completion returned status %d: %s", resp.StatusCode, string(b))
	}

	return &CompletionStream{
		body: resp.Body,
		buf:  make([]byte, 4096),
		onClose: func() {
			c.mu.Lock()
			c.busy = false
			c.mu.Unlock()
		},
	}, nil
}

// ListPrompts fetches the reusable prompt templates.
func (c *Completer) ListPrompts(ctx context.Context) ([]PromptTemplate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prompts", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("prompts returned status %d: %s", resp.StatusCode, string(b))
	}

	var prompts []PromptTemplate
	if err := json.NewDecoder(resp.Body).Decode(&prompts); err != nil {
		return nil, fmt.Errorf("decoding prompts response: %w", err)
	}

	return prompts, nil
}

// PromptTemplate mirrors the service's template representation.
type PromptTemplate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Template string `json:"template"`
}
