package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mediascribe/internal/config"
)

type OpenAIService struct {
	client          *openai.Client
	transcribeModel string
	chatModel       string
}

func NewOpenAIService(cfg config.Config) *OpenAIService {
	return &OpenAIService{
		client:          openai.NewClient(cfg.OpenAIAPIKey),
		transcribeModel: cfg.TranscribeModel,
		chatModel:       cfg.ChatModel,
	}
}

// Transcribe sends one audio segment to the speech-to-text API and returns
// its text. The filename's extension tells the API the container format.
func (s *OpenAIService) Transcribe(ctx context.Context, r io.Reader, filename string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.transcribeModel,
		Reader:   r,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("create transcription: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Complete issues a single chat completion and returns the generated text.
func (s *OpenAIService) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsTransient reports whether an API error is worth retrying: rate limits,
// server-side failures, and network timeouts. Client errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
