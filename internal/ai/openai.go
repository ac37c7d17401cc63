// Package ai wraps the OpenAI API for the two upstream calls the service
// makes: Whisper transcription and streamed chat completion.
package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"uploadai/internal/apperr"
)

// TokenStream is a finite sequence of completion text chunks. Recv returns
// io.EOF once upstream closes the stream. Closing the stream stops local
// consumption only; upstream generation may keep running.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// Client calls the OpenAI API. The completion model is fixed at
// construction; no ambient configuration is consulted afterwards.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a client for the given API key and completion model.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, apperr.Validation("OpenAI API key is empty")
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

// Transcribe sends the stored audio file to Whisper and returns the
// transcript. The optional prompt biases recognition toward the words it
// mentions (proper nouns, jargon); empty means no hint. A silent track
// yields an empty transcript, not an error.
func (c *Client) Transcribe(ctx context.Context, audioPath, prompt string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Prompt:   prompt,
	}

	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperr.Upstream("creating transcription", err)
	}

	slog.Info("transcription received", "chars", len(resp.Text))
	return strings.TrimSpace(resp.Text), nil
}

// StreamCompletion opens a streaming chat completion for the resolved
// prompt. Tokens are relayed as they arrive; the caller must Close the
// stream. Cancelling ctx abandons the underlying connection.
func (c *Client) StreamCompletion(ctx context.Context, prompt string, temperature float32) (TokenStream, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		Stream:      true,
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, apperr.Upstream("creating chat completion stream", err)
	}

	return &chatTokenStream{stream: stream}, nil
}

type chatTokenStream struct {
	stream *openai.ChatCompletionStream
}

func (s *chatTokenStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *chatTokenStream) Close() error {
	return s.stream.Close()
}
