package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/presenter"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/runlog"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/stager"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/watcher"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/web"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

const defaultConfigFile = "config.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: summarizer <command> [flags]

Commands:
  run <audio.wav|audio.mp3>   transcribe and summarize one file
  serve                       start the local upload page
  watch                       process audio dropped into the inbox

Flags:
  -config path        config file (default ./%s when present)
  -docx out.docx      run: also write summary and transcript to a docx file
  -transcript         run, watch: print the transcript before the summary
`, defaultConfigFile)
}

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	fs.Usage = usage
	configPath := fs.String("config", "", "config file")
	docxPath := fs.String("docx", "", "write summary to a docx file")
	showTranscript := fs.Bool("transcript", false, "print the transcript")
	fs.Parse(os.Args[2:])

	// allow flags after the audio path: run meeting.wav -docx out.docx
	var positional []string
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		fs.Parse(fs.Args()[1:])
	}

	envErr := godotenv.Load()

	// Load configuration
	path := *configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envErr != nil {
		log.Debug(ctx, "No .env file found, using environment variables only")
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Local Meeting Summarizer")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcription: %s strategy, language %s", cfg.Transcription.Strategy, cfg.Transcription.Language)
	log.Info(ctx, "Summarization: %s backend, model %s", cfg.Summarization.Backend, cfg.Summarization.Model)

	p, err := buildPipeline(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		return 1
	}
	defer p.Close()

	var reporter pipeline.Reporter
	if cfg.Logging.RunLogDir != "" {
		rl, err := runlog.New(cfg.Logging.RunLogDir, log)
		if err != nil {
			log.Error(ctx, "Failed to open run log: %v", err)
			return 1
		}
		defer rl.Close()
		reporter = rl
	}

	switch command {
	case "run":
		if len(positional) != 1 {
			usage()
			return 2
		}
		return runOnce(ctx, p, reporter, positional[0], *docxPath, *showTranscript, log)
	case "serve":
		return serve(ctx, cfg, p, reporter, log)
	case "watch":
		return watch(ctx, cfg, p, reporter, *showTranscript, log)
	default:
		usage()
		return 2
	}
}

// buildPipeline resolves executables once and wires the stages together
func buildPipeline(cfg *config.Config, log logger.Logger) (pipeline.Pipeline, error) {
	exec := executor.New()

	st := stager.New(cfg.Staging.Dir, cfg.Staging.KeepAudio, log)
	tr, err := transcriber.New(cfg.Transcription, exec, log)
	if err != nil {
		return nil, err
	}
	sum, err := summarizer.New(cfg.Summarization, cfg.Transcription.SearchDirs, exec, log)
	if err != nil {
		tr.Close()
		return nil, err
	}

	return pipeline.New(st, tr, sum, pipeline.Options{
		Language:             cfg.Transcription.Language,
		TranscriptionTimeout: cfg.Transcription.Timeout,
		SummarizationTimeout: cfg.Summarization.Timeout,
	}, log), nil
}

func runOnce(ctx context.Context, p pipeline.Pipeline, reporter pipeline.Reporter, audioPath, docxPath string, showTranscript bool, log logger.Logger) int {
	res, err := processFile(ctx, p, pipeline.Reporters(presenter.NewConsole(os.Stdout, showTranscript), reporter), audioPath)
	if err != nil {
		var serr *pipeline.StageError
		if !errors.As(err, &serr) {
			// stage failures were already printed by the console presenter
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	if docxPath != "" {
		title := "Meeting summary: " + filepath.Base(audioPath)
		if err := summarizer.WriteDocx(docxPath, title, res.Summary, res.Transcript); err != nil {
			log.Error(ctx, "Failed to write docx: %v", err)
			return 1
		}
		fmt.Printf("✅ Saved summary to: %s\n", docxPath)
	}
	return 0
}

func processFile(ctx context.Context, p pipeline.Pipeline, rep pipeline.Reporter, audioPath string) (*pipeline.Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	return p.Run(ctx, pipeline.Upload{Name: filepath.Base(audioPath), Body: f}, rep)
}

func serve(ctx context.Context, cfg *config.Config, p pipeline.Pipeline, reporter pipeline.Reporter, log logger.Logger) int {
	srv := web.New(cfg.Server, p, reporter, log)
	log.Info(ctx, "Open http://%s in a browser. Press Ctrl+C to stop", cfg.Server.Addr)
	if err := srv.Listen(ctx); err != nil {
		log.Error(ctx, "Web UI error: %v", err)
		return 1
	}
	log.Info(ctx, "Web UI stopped")
	return 0
}

func watch(ctx context.Context, cfg *config.Config, p pipeline.Pipeline, reporter pipeline.Reporter, showTranscript bool, log logger.Logger) int {
	console := presenter.NewConsole(os.Stdout, showTranscript)
	handler := func(ctx context.Context, path string) error {
		fmt.Printf("%s\n%s\n", strings.Repeat("=", 40), filepath.Base(path))
		_, err := processFile(ctx, p, pipeline.Reporters(console, reporter), path)
		return err
	}

	w, err := watcher.New(cfg.Watch.Inbox, handler, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return 1
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Watching %s for .wav and .mp3 files", cfg.Watch.Inbox)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
		return 1
	}
	log.Info(ctx, "Shutdown signal received, watcher stopped")
	return 0
}
