package pipeline

import (
	"context"
	"time"
)

type EventKind string

const (
	EventRunStarted      EventKind = "run_started"
	EventStageStarted    EventKind = "stage_started"
	EventStageFinished   EventKind = "stage_finished"
	EventDiagnostic      EventKind = "diagnostic"
	EventTranscriptReady EventKind = "transcript_ready"
	EventFailed          EventKind = "failed"
	EventCompleted       EventKind = "completed"
)

// Event is one progress notification from a run
type Event struct {
	RunID string
	Kind  EventKind
	Stage State
	At    time.Time

	// Label names a diagnostic stream, e.g. "Whisper stdout"
	Label string
	// Text carries the stage detail, diagnostic body or transcript
	Text string

	Err    *StageError
	Result *Result
}

// Reporter receives the events of a run, in order, on the run's goroutine
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(ctx context.Context, ev Event)

func (f ReporterFunc) Report(ctx context.Context, ev Event) { f(ctx, ev) }

type multiReporter []Reporter

func (m multiReporter) Report(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Report(ctx, ev)
	}
}

// Reporters fans events out to every non-nil reporter
func Reporters(rs ...Reporter) Reporter {
	out := make(multiReporter, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
