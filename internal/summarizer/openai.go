package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/sashabaranov/go-openai"
)

type openAISummarizer struct {
	client  *openai.Client
	baseURL string
	model   string
	logger  logger.Logger
}

// NewOpenAI creates a Summarizer talking to an OpenAI-compatible endpoint,
// such as the one Ollama serves under /v1 on localhost
func NewOpenAI(baseURL, apiKey, model string, log logger.Logger) Summarizer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &openAISummarizer{
		client:  openai.NewClientWithConfig(cfg),
		baseURL: cfg.BaseURL,
		model:   model,
		logger:  log,
	}
}

func (s *openAISummarizer) Describe() string {
	return fmt.Sprintf("%s via %s", s.model, s.baseURL)
}

func (s *openAISummarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	s.logger.Info(ctx, "Summarizing %d chars with %s", len(transcript), s.Describe())

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(transcript)},
		},
	})
	if err != nil {
		return &Summary{Model: s.model, Stderr: err.Error()}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &Summary{Model: s.model}, fmt.Errorf("empty response from %s", s.baseURL)
	}

	return &Summary{Text: resp.Choices[0].Message.Content, Model: s.model}, nil
}
