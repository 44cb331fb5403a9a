// Package runlog writes one JSONL file per pipeline run recording stage
// transitions and timings. Transcript and summary text never reach it.
package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
)

const (
	EventRunStart   = "run_start"
	EventStageStart = "stage_start"
	EventStageEnd   = "stage_end"
	EventRunFailed  = "run_failed"
	EventRunEnd     = "run_end"
)

type record struct {
	Timestamp string            `json:"ts"`
	Event     string            `json:"event"`
	RunID     string            `json:"run_id"`
	Stage     string            `json:"stage,omitempty"`
	ElapsedMS int64             `json:"elapsed_ms,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type runFile struct {
	file       *os.File
	started    time.Time
	stageStart time.Time
}

// Writer is a pipeline.Reporter that persists run events under dir
type Writer struct {
	mu     sync.Mutex
	dir    string
	runs   map[string]*runFile
	logger logger.Logger
}

// New creates a Writer, making dir if needed
func New(dir string, log logger.Logger) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create run log dir: %w", err)
	}
	return &Writer{dir: dir, runs: make(map[string]*runFile), logger: log}, nil
}

// Path returns the log file name for a run started at started
func (w *Writer) Path(runID string, started time.Time) string {
	shortID := runID
	if len(runID) > 8 {
		shortID = runID[:8]
	}
	return filepath.Join(w.dir, fmt.Sprintf("%s_run_%s.jsonl", started.Format("20060102_150405"), shortID))
}

func (w *Writer) Report(ctx context.Context, ev pipeline.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	if ev.Kind == pipeline.EventRunStarted {
		path := w.Path(ev.RunID, at)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			w.logger.Warn(ctx, "Failed to open run log %s: %v", path, err)
			return
		}
		w.runs[ev.RunID] = &runFile{file: f, started: at}
		w.write(ctx, w.runs[ev.RunID], record{
			Timestamp: at.Format(time.RFC3339Nano),
			Event:     EventRunStart,
			RunID:     ev.RunID,
			Stage:     string(ev.Stage),
			Details:   map[string]string{"upload": filepath.Base(ev.Text)},
		})
		return
	}

	rf, ok := w.runs[ev.RunID]
	if !ok {
		return
	}

	rec := record{Timestamp: at.Format(time.RFC3339Nano), RunID: ev.RunID, Stage: string(ev.Stage)}
	switch ev.Kind {
	case pipeline.EventStageStarted:
		rf.stageStart = at
		rec.Event = EventStageStart
	case pipeline.EventStageFinished:
		rec.Event = EventStageEnd
		rec.ElapsedMS = at.Sub(rf.stageStart).Milliseconds()
	case pipeline.EventFailed:
		rec.Event = EventRunFailed
		rec.ElapsedMS = at.Sub(rf.started).Milliseconds()
		rec.Error = ev.Text
	case pipeline.EventCompleted:
		rec.Event = EventRunEnd
		rec.ElapsedMS = at.Sub(rf.started).Milliseconds()
		if ev.Result != nil {
			rec.Details = map[string]string{"charset": ev.Result.Charset, "model": ev.Result.Model}
		}
	default:
		// diagnostics and transcript text stay out of the log
		return
	}
	w.write(ctx, rf, rec)

	if ev.Kind == pipeline.EventFailed || ev.Kind == pipeline.EventCompleted {
		if err := rf.file.Close(); err != nil {
			w.logger.Warn(ctx, "Failed to close run log: %v", err)
		}
		delete(w.runs, ev.RunID)
	}
}

func (w *Writer) write(ctx context.Context, rf *runFile, rec record) {
	if err := json.NewEncoder(rf.file).Encode(rec); err != nil {
		w.logger.Warn(ctx, "Failed to write run log: %v", err)
	}
}

// Close closes files of runs that never reached a terminal event
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	for id, rf := range w.runs {
		if err := rf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(w.runs, id)
	}
	return firstErr
}
