package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path skips the file and uses defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with MEETSUM_* environment variables
func applyEnv(cfg *Config) error {
	cfg.Transcription.Strategy = getEnv("MEETSUM_STRATEGY", cfg.Transcription.Strategy)
	cfg.Transcription.Language = getEnv("MEETSUM_LANGUAGE", cfg.Transcription.Language)
	cfg.Transcription.Process.BinaryPath = getEnv("MEETSUM_WHISPER_BIN", cfg.Transcription.Process.BinaryPath)
	cfg.Transcription.Resident.Model = getEnv("MEETSUM_WHISPER_MODEL", cfg.Transcription.Resident.Model)
	cfg.Summarization.Backend = getEnv("MEETSUM_LLM_BACKEND", cfg.Summarization.Backend)
	cfg.Summarization.Model = getEnv("MEETSUM_LLM_MODEL", cfg.Summarization.Model)
	cfg.Summarization.Process.BinaryPath = getEnv("MEETSUM_OLLAMA_BIN", cfg.Summarization.Process.BinaryPath)
	cfg.Summarization.OpenAI.BaseURL = getEnv("MEETSUM_OPENAI_BASE_URL", cfg.Summarization.OpenAI.BaseURL)
	cfg.Server.Addr = getEnv("MEETSUM_ADDR", cfg.Server.Addr)
	cfg.Logging.Level = getEnv("MEETSUM_LOG_LEVEL", cfg.Logging.Level)

	if v, ok := os.LookupEnv("MEETSUM_KEEP_AUDIO"); ok {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MEETSUM_KEEP_AUDIO: %w", err)
		}
		cfg.Staging.KeepAudio = keep
	}

	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
