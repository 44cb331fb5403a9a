package presenter

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// StageView is one row of the progress list
type StageView struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type DiagnosticView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// View is everything the web page shows for one run
type View struct {
	RunID       string           `json:"run_id"`
	State       string           `json:"state"`
	Stages      []StageView      `json:"stages"`
	Diagnostics []DiagnosticView `json:"diagnostics"`
	Messages    []string         `json:"messages"`
	Transcript  string           `json:"transcript,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Model       string           `json:"model,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Recorder keeps a run's events in memory and folds them into a View
type Recorder struct {
	mu     sync.Mutex
	events []pipeline.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(ctx context.Context, ev pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []pipeline.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pipeline.Event(nil), r.events...)
}

// View folds the recorded events. A summary appears only once the run
// has completed.
func (r *Recorder) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		State:       string(pipeline.StateIdle),
		Stages:      []StageView{},
		Diagnostics: []DiagnosticView{},
		Messages:    []string{},
	}
	for _, ev := range r.events {
		if v.RunID == "" {
			v.RunID = ev.RunID
		}
		if line := Line(ev); line != "" && ev.Kind != pipeline.EventDiagnostic {
			v.Messages = append(v.Messages, line)
		}

		switch ev.Kind {
		case pipeline.EventStageStarted:
			v.State = string(ev.Stage)
			v.Stages = append(v.Stages, StageView{Name: string(ev.Stage), Status: StatusRunning, Detail: ev.Text})
		case pipeline.EventStageFinished:
			if i := len(v.Stages) - 1; i >= 0 {
				v.Stages[i].Status = StatusDone
				if ev.Text != "" {
					v.Stages[i].Detail = ev.Text
				}
			}
		case pipeline.EventDiagnostic:
			v.Diagnostics = append(v.Diagnostics, DiagnosticView{Label: ev.Label, Text: ev.Text})
		case pipeline.EventTranscriptReady:
			v.Transcript = ev.Text
		case pipeline.EventFailed:
			v.State = string(pipeline.StateFailed)
			if i := len(v.Stages) - 1; i >= 0 && v.Stages[i].Status == StatusRunning {
				v.Stages[i].Status = StatusFailed
			}
			v.Error = ev.Text
			v.Summary = ""
		case pipeline.EventCompleted:
			v.State = string(pipeline.StateDone)
			if ev.Result != nil {
				v.Summary = ev.Result.Summary
				v.Model = ev.Result.Model
			}
		}
	}
	return v
}
