package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
)

const (
	StrategyProcess  = "process"
	StrategyResident = "resident"

	BackendProcess = "process"
	BackendOpenAI  = "openai"
)

type Config struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Staging       StagingConfig       `yaml:"staging"`
	Server        ServerConfig        `yaml:"server"`
	Watch         WatchConfig         `yaml:"watch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type TranscriptionConfig struct {
	Strategy   string         `yaml:"strategy"`
	Language   string         `yaml:"language"`
	SearchDirs []string       `yaml:"search_dirs"`
	Timeout    time.Duration  `yaml:"timeout"`
	Process    ProcessConfig  `yaml:"process"`
	Resident   ResidentConfig `yaml:"resident"`
}

// ProcessConfig drives the whisper command line invocation
type ProcessConfig struct {
	BinaryPath   string   `yaml:"binary_path"`
	Args         []string `yaml:"args"`
	OutputFormat string   `yaml:"output_format"`
	ScratchDir   string   `yaml:"scratch_dir"`
	Isolate      *bool    `yaml:"isolate"`
}

// ResidentConfig drives a long-lived worker that keeps the model loaded
type ResidentConfig struct {
	PythonPath   string `yaml:"python_path"`
	WorkerScript string `yaml:"worker_script"`
	Model        string `yaml:"model"`
	Device       string `yaml:"device"`
}

type SummarizationConfig struct {
	Backend string           `yaml:"backend"`
	Model   string           `yaml:"model"`
	Timeout time.Duration    `yaml:"timeout"`
	Process LLMProcessConfig `yaml:"process"`
	OpenAI  OpenAIConfig     `yaml:"openai"`
}

type LLMProcessConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type StagingConfig struct {
	Dir       string `yaml:"dir"`
	KeepAudio bool   `yaml:"keep_audio"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type WatchConfig struct {
	Inbox string `yaml:"inbox"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	RunLogDir string `yaml:"run_log_dir"`
}

// IsolateScratch reports whether each run gets a private scratch directory
func (c ProcessConfig) IsolateScratch() bool {
	return c.Isolate == nil || *c.Isolate
}

func (c *Config) Validate() error {
	t := &c.Transcription
	if t.Strategy == "" {
		t.Strategy = StrategyProcess
	}
	if t.Strategy != StrategyProcess && t.Strategy != StrategyResident {
		return fmt.Errorf("transcription.strategy must be %q or %q, got %q", StrategyProcess, StrategyResident, t.Strategy)
	}
	if t.Language == "" {
		t.Language = "French"
	}
	if t.SearchDirs == nil {
		t.SearchDirs = []string{"."}
	}
	if t.Timeout < 0 {
		return fmt.Errorf("transcription.timeout must not be negative")
	}
	if t.Process.BinaryPath == "" {
		t.Process.BinaryPath = "python3"
		if t.Process.Args == nil {
			t.Process.Args = []string{"-m", "whisper"}
		}
	}
	if t.Process.OutputFormat == "" {
		t.Process.OutputFormat = "txt"
	}
	if t.Process.ScratchDir == "" {
		t.Process.ScratchDir = os.TempDir()
	}
	if t.Resident.PythonPath == "" {
		t.Resident.PythonPath = "python3"
	}
	if t.Resident.WorkerScript == "" {
		t.Resident.WorkerScript = "scripts/whisper_worker.py"
	}
	if t.Resident.Model == "" {
		t.Resident.Model = "base"
	}
	if t.Resident.Device == "" {
		t.Resident.Device = "cpu"
	}

	s := &c.Summarization
	if s.Backend == "" {
		s.Backend = BackendProcess
	}
	if s.Backend != BackendProcess && s.Backend != BackendOpenAI {
		return fmt.Errorf("summarization.backend must be %q or %q, got %q", BackendProcess, BackendOpenAI, s.Backend)
	}
	if s.Model == "" {
		s.Model = "mistral"
	}
	if s.Timeout < 0 {
		return fmt.Errorf("summarization.timeout must not be negative")
	}
	if s.Process.BinaryPath == "" {
		s.Process.BinaryPath = "ollama"
	}
	if s.OpenAI.BaseURL == "" {
		s.OpenAI.BaseURL = "http://localhost:11434/v1"
	}
	if s.OpenAI.APIKey == "" {
		s.OpenAI.APIKey = "ollama"
	}

	if c.Staging.Dir == "" {
		c.Staging.Dir = os.TempDir()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8501"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.Watch.Inbox == "" {
		c.Watch.Inbox = "data/inbox"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return nil
}
