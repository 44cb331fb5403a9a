package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/decoder"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-summarizer/pkg/executor"
)

// run is the bookkeeping for one pipeline execution
type run struct {
	id  string
	m   machine
	rep Reporter
}

func (r *run) emit(ctx context.Context, ev Event) {
	ev.RunID = r.id
	ev.At = time.Now()
	if ev.Stage == "" {
		ev.Stage = r.m.state
	}
	r.rep.Report(ctx, ev)
}

// enter panics on an invalid transition, which only a reordering of the
// steps in Run can cause
func (r *run) enter(ctx context.Context, stage State, detail string) {
	if err := r.m.advance(stage); err != nil {
		panic(err)
	}
	r.emit(ctx, Event{Kind: EventStageStarted, Text: detail})
}

func (r *run) finish(ctx context.Context, detail string) {
	r.emit(ctx, Event{Kind: EventStageFinished, Text: detail})
}

// Run executes the whole pipeline for one upload
func (p *implPipeline) Run(ctx context.Context, up Upload, rep Reporter) (*Result, error) {
	if rep == nil {
		rep = Reporters()
	}
	if err := p.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for previous run: %w", err)
	}
	defer p.sem.release()

	startTime := time.Now()
	r := &run{id: uuid.NewString(), m: machine{state: StateIdle}, rep: rep}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting run %s: %s", r.id, up.Name)
	p.logger.Info(ctx, "========================================")
	r.emit(ctx, Event{Kind: EventRunStarted, Text: up.Name})

	// Step 1: Stage audio
	r.enter(ctx, StateStaging, "")
	staged, err := p.stager.Stage(ctx, up.Body, up.Name)
	if err != nil {
		return nil, p.fail(ctx, r, ErrStaging, "Failed to save audio file:\n"+err.Error(), err.Error(), err)
	}
	defer staged.Release(ctx)

	if _, err := os.Stat(staged.Path); err != nil {
		return nil, p.fail(ctx, r, ErrStaging, fmt.Sprintf("Audio file not found at %s", staged.Path), err.Error(), err)
	}
	r.finish(ctx, staged.Path)

	// Step 2: Transcribe
	r.enter(ctx, StateTranscribing, "")
	tctx, cancel := withTimeout(ctx, p.opts.TranscriptionTimeout)
	tr, err := p.transcriber.Transcribe(tctx, staged.Path, p.opts.Language)
	cancel()
	if tr != nil {
		defer tr.Release()
		if tr.NeedsDecoding() || tr.Stdout != "" || tr.Stderr != "" {
			r.emit(ctx, Event{Kind: EventDiagnostic, Label: "Whisper stdout", Text: tr.Stdout})
			r.emit(ctx, Event{Kind: EventDiagnostic, Label: "Whisper stderr", Text: tr.Stderr})
		}
	}
	if err != nil {
		diag := diagnostic(err, tr)
		return nil, p.fail(ctx, r, ErrTranscription, "Whisper failed:\n"+diag, diag, err)
	}
	r.finish(ctx, "")

	text := tr.Text
	charset := ""

	// Step 3: Decode the transcript file, for engines that write one
	if tr.NeedsDecoding() {
		r.enter(ctx, StateDecoding, "")
		path := tr.Artifact
		if path == "" {
			path, err = decoder.Newest(tr.ScratchDir, tr.Ext)
			if err != nil {
				return nil, p.fail(ctx, r, ErrTranscription, "No transcript file found.", err.Error(), err)
			}
		}

		decoded, err := decoder.DecodeFile(path)
		if err != nil {
			return nil, p.fail(ctx, r, ErrTranscription, "No transcript file found.", err.Error(), err)
		}
		text, charset = decoded.Text, decoded.Charset
		p.logger.Debug(ctx, "Decoded %s as %s (%d bytes)", path, charset, len(text))
		r.finish(ctx, charset)
	}

	if strings.TrimSpace(text) == "" {
		return nil, p.fail(ctx, r, ErrEmptyTranscript, "No transcript was generated", "", nil)
	}
	r.emit(ctx, Event{Kind: EventTranscriptReady, Text: text})

	// Step 4: Summarize
	r.enter(ctx, StateSummarizing, p.summarizer.Describe())
	sctx, cancel := withTimeout(ctx, p.opts.SummarizationTimeout)
	summary, err := p.summarizer.Summarize(sctx, text)
	cancel()
	if err != nil {
		diag := err.Error()
		if summary != nil && strings.TrimSpace(summary.Stderr) != "" {
			diag = summary.Stderr
		}
		return nil, p.fail(ctx, r, ErrSummarization, "Ollama error:\n"+diag, diag, err)
	}
	r.finish(ctx, "")

	if err := r.m.advance(StateDone); err != nil {
		panic(err)
	}

	result := &Result{
		RunID:      r.id,
		AudioPath:  staged.Path,
		Transcript: text,
		Charset:    charset,
		Summary:    summary.Text,
		Model:      summary.Model,
		Duration:   time.Since(startTime),
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Run %s completed in %s", r.id, result.Duration)
	p.logger.Info(ctx, "========================================")
	r.emit(ctx, Event{Kind: EventCompleted, Result: result})

	return result, nil
}

// fail moves the run to Failed and reports the error
func (p *implPipeline) fail(ctx context.Context, r *run, kind error, msg, diag string, cause error) error {
	stage := r.m.state
	if err := r.m.advance(StateFailed); err != nil {
		panic(err)
	}

	serr := &StageError{
		Stage:      stage,
		Kind:       kind,
		Message:    msg,
		Diagnostic: diag,
		Err:        cause,
	}
	p.logger.Error(ctx, "Run %s failed during %s: %v", r.id, stage, cause)
	r.emit(ctx, Event{Kind: EventFailed, Stage: stage, Text: msg, Err: serr})
	return serr
}

// diagnostic picks the most useful raw text for a transcription failure
func diagnostic(err error, tr *transcriber.Transcription) string {
	var exitErr *executor.ExitError
	if errors.As(err, &exitErr) && strings.TrimSpace(exitErr.Stderr) != "" {
		return exitErr.Stderr
	}
	if tr != nil && strings.TrimSpace(tr.Stderr) != "" {
		return tr.Stderr
	}
	return err.Error()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
