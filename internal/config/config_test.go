package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "resident strategy",
			config: Config{
				Transcription: TranscriptionConfig{Strategy: StrategyResident},
			},
			wantErr: false,
		},
		{
			name: "unknown strategy",
			config: Config{
				Transcription: TranscriptionConfig{Strategy: "cloud"},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			config: Config{
				Summarization: SummarizationConfig{Backend: "gemini"},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				Summarization: SummarizationConfig{Timeout: -time.Second},
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			config: Config{
				Logging: LoggingConfig{Level: "verbose"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Transcription.Strategy != StrategyProcess {
		t.Errorf("Strategy = %v, want %v", cfg.Transcription.Strategy, StrategyProcess)
	}
	if cfg.Transcription.Language != "French" {
		t.Errorf("Language = %v, want French", cfg.Transcription.Language)
	}
	if cfg.Transcription.Process.BinaryPath != "python3" {
		t.Errorf("BinaryPath = %v, want python3", cfg.Transcription.Process.BinaryPath)
	}
	if !reflect.DeepEqual(cfg.Transcription.Process.Args, []string{"-m", "whisper"}) {
		t.Errorf("Args = %v, want [-m whisper]", cfg.Transcription.Process.Args)
	}
	if cfg.Transcription.Process.OutputFormat != "txt" {
		t.Errorf("OutputFormat = %v, want txt", cfg.Transcription.Process.OutputFormat)
	}
	if !cfg.Transcription.Process.IsolateScratch() {
		t.Error("IsolateScratch() should default to true")
	}
	if cfg.Summarization.Model != "mistral" {
		t.Errorf("Model = %v, want mistral", cfg.Summarization.Model)
	}
	if cfg.Summarization.Process.BinaryPath != "ollama" {
		t.Errorf("LLM binary = %v, want ollama", cfg.Summarization.Process.BinaryPath)
	}
	if cfg.Summarization.Timeout != 0 || cfg.Transcription.Timeout != 0 {
		t.Error("timeouts should default to 0 (none)")
	}
	if cfg.Staging.KeepAudio {
		t.Error("KeepAudio should default to false")
	}
}

func TestValidateKeepsCustomWhisperArgs(t *testing.T) {
	cfg := Config{
		Transcription: TranscriptionConfig{
			Process: ProcessConfig{BinaryPath: "whisper"},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.Transcription.Process.Args) != 0 {
		t.Errorf("Args = %v, want none for a custom binary", cfg.Transcription.Process.Args)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
transcription:
  strategy: "process"
  language: "English"
  timeout: 90s
  process:
    binary_path: "whisper"
    output_format: "txt"
    isolate: false

summarization:
  backend: "openai"
  model: "llama3"
  openai:
    base_url: "http://127.0.0.1:11434/v1"

staging:
  keep_audio: true

logging:
  level: "debug"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Transcription.Language != "English" {
		t.Errorf("Language = %v, want %v", cfg.Transcription.Language, "English")
	}
	if cfg.Transcription.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Transcription.Timeout)
	}
	if cfg.Transcription.Process.IsolateScratch() {
		t.Error("IsolateScratch() = true, want false")
	}
	if cfg.Summarization.Backend != BackendOpenAI {
		t.Errorf("Backend = %v, want %v", cfg.Summarization.Backend, BackendOpenAI)
	}
	if cfg.Summarization.Model != "llama3" {
		t.Errorf("Model = %v, want llama3", cfg.Summarization.Model)
	}
	if !cfg.Staging.KeepAudio {
		t.Error("KeepAudio = false, want true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MEETSUM_LANGUAGE", "German")
	t.Setenv("MEETSUM_LLM_MODEL", "phi3")
	t.Setenv("MEETSUM_KEEP_AUDIO", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transcription.Language != "German" {
		t.Errorf("Language = %v, want German", cfg.Transcription.Language)
	}
	if cfg.Summarization.Model != "phi3" {
		t.Errorf("Model = %v, want phi3", cfg.Summarization.Model)
	}
	if !cfg.Staging.KeepAudio {
		t.Error("KeepAudio = false, want true")
	}
}

func TestLoadInvalidKeepAudio(t *testing.T) {
	t.Setenv("MEETSUM_KEEP_AUDIO", "sometimes")
	if _, err := Load(""); err == nil {
		t.Error("Load() should reject a non-boolean MEETSUM_KEEP_AUDIO")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
