package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

// New creates the Transcriber selected by cfg.Strategy. Executables are
// resolved here, once, so later calls never depend on PATH lookups. The
// speech engine's own helpers (ffmpeg) are found through cfg.SearchDirs,
// appended to the child's PATH.
func New(cfg config.TranscriptionConfig, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	env := executor.SearchPathEnv(cfg.SearchDirs...)

	switch cfg.Strategy {
	case config.StrategyProcess, "":
		bin, err := executor.Resolve(cfg.Process.BinaryPath, cfg.SearchDirs...)
		if err != nil {
			return nil, fmt.Errorf("whisper binary: %w", err)
		}
		return NewProcess(exec, bin, cfg.Process, env, log), nil

	case config.StrategyResident:
		python, err := executor.Resolve(cfg.Resident.PythonPath, cfg.SearchDirs...)
		if err != nil {
			return nil, fmt.Errorf("resident worker interpreter: %w", err)
		}
		return NewResident(python, cfg.Resident, env, log), nil

	default:
		return nil, fmt.Errorf("unsupported transcription strategy: %s", cfg.Strategy)
	}
}
