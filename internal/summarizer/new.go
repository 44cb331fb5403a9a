package summarizer

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

// ErrEmptyTranscript is returned when asked to summarize blank text
var ErrEmptyTranscript = errors.New("empty transcript")

// New creates the Summarizer selected by cfg.Backend
func New(cfg config.SummarizationConfig, searchDirs []string, exec executor.Executor, log logger.Logger) (Summarizer, error) {
	switch cfg.Backend {
	case config.BackendProcess, "":
		bin, err := executor.Resolve(cfg.Process.BinaryPath, searchDirs...)
		if err != nil {
			return nil, fmt.Errorf("ollama binary: %w", err)
		}
		return NewProcess(exec, bin, cfg.Model, log), nil

	case config.BackendOpenAI:
		return NewOpenAI(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.Model, log), nil

	default:
		return nil, fmt.Errorf("unsupported summarization backend: %s", cfg.Backend)
	}
}
