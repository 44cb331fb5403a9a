package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

type processTranscriber struct {
	executor   executor.Executor
	binary     string
	args       []string
	format     string
	scratchDir string
	isolate    bool
	env        []string
	logger     logger.Logger
}

// NewProcess creates a Transcriber that runs the whisper command line.
// binary must already be resolved; env is added to the child's environment
// and usually carries the PATH whisper uses to find ffmpeg.
func NewProcess(exec executor.Executor, binary string, cfg config.ProcessConfig, env []string, log logger.Logger) Transcriber {
	return &processTranscriber{
		executor:   exec,
		binary:     binary,
		args:       cfg.Args,
		format:     cfg.OutputFormat,
		scratchDir: cfg.ScratchDir,
		isolate:    cfg.IsolateScratch(),
		env:        env,
		logger:     log,
	}
}

// Transcribe invokes whisper with an explicit language, output format and
// output directory, then reports where the transcript file landed
func (p *processTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*Transcription, error) {
	outputDir := p.scratchDir
	var cleanup func()
	if p.isolate {
		dir, err := os.MkdirTemp(p.scratchDir, "transcript-*")
		if err != nil {
			return nil, fmt.Errorf("create scratch dir: %w", err)
		}
		outputDir = dir
		cleanup = func() {
			if err := os.RemoveAll(dir); err != nil {
				p.logger.Warn(ctx, "Failed to cleanup scratch dir %s: %v", dir, err)
			}
		}
	}

	// whisper <audio> --language L --output_format F --output_dir D
	args := make([]string, 0, len(p.args)+7)
	args = append(args, p.args...)
	args = append(args,
		audioPath,
		"--language", language,
		"--output_format", p.format,
		"--output_dir", outputDir,
	)

	p.logger.Info(ctx, "Starting transcription (%s, %s): %s", language, p.format, audioPath)
	p.logger.Debug(ctx, "Whisper command: %s %s", p.binary, strings.Join(args, " "))

	res, err := p.executor.Run(ctx, executor.Command{Name: p.binary, Args: args, Env: p.env})
	tr := &Transcription{
		ScratchDir: outputDir,
		Ext:        "." + p.format,
		cleanup:    cleanup,
	}
	if res != nil {
		tr.Stdout, tr.Stderr = res.Stdout, res.Stderr
	}
	if err != nil {
		tr.Release()
		return tr, fmt.Errorf("whisper transcribe: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	expected := filepath.Join(outputDir, stem+tr.Ext)
	if info, err := os.Stat(expected); err == nil && !info.IsDir() {
		tr.Artifact = expected
	} else {
		p.logger.Warn(ctx, "Expected transcript %s not found, falling back to newest file in %s", expected, outputDir)
	}

	p.logger.Info(ctx, "Transcription completed: %s", outputDir)
	return tr, nil
}

func (p *processTranscriber) Close() error { return nil }
