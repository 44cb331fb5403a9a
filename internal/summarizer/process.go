package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

type processSummarizer struct {
	executor executor.Executor
	binary   string
	model    string
	logger   logger.Logger
}

// NewProcess creates a Summarizer that pipes the prompt into `ollama run <model>`
func NewProcess(exec executor.Executor, binary, model string, log logger.Logger) Summarizer {
	return &processSummarizer{
		executor: exec,
		binary:   binary,
		model:    model,
		logger:   log,
	}
}

func (s *processSummarizer) Describe() string {
	return fmt.Sprintf("%s via Ollama", s.model)
}

// Summarize sends the prompt on stdin and buffers the whole of stdout
func (s *processSummarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	prompt := BuildPrompt(transcript)
	s.logger.Info(ctx, "Summarizing %d chars with %s", len(transcript), s.Describe())

	res, err := s.executor.Run(ctx, executor.Command{
		Name:  s.binary,
		Args:  []string{"run", s.model},
		Stdin: prompt,
	})
	if err != nil {
		summary := &Summary{Model: s.model}
		if res != nil {
			summary.Stderr = res.Stderr
		}
		return summary, fmt.Errorf("ollama run: %w", err)
	}

	return &Summary{Text: res.Stdout, Model: s.model, Stderr: res.Stderr}, nil
}
