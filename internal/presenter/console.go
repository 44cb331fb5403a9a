package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
)

// Console writes progress lines to w as the run advances
type Console struct {
	mu             sync.Mutex
	w              io.Writer
	showTranscript bool
}

// NewConsole creates a Console. With showTranscript the decoded text is
// printed once transcription completes.
func NewConsole(w io.Writer, showTranscript bool) *Console {
	return &Console{w: w, showTranscript: showTranscript}
}

func (c *Console) Report(ctx context.Context, ev pipeline.Event) {
	line := Line(ev)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w, line)
	switch ev.Kind {
	case pipeline.EventTranscriptReady:
		if c.showTranscript {
			fmt.Fprintln(c.w, strings.TrimSpace(ev.Text))
		}
	case pipeline.EventCompleted:
		if ev.Result != nil {
			fmt.Fprintln(c.w, strings.TrimRight(ev.Result.Summary, "\n"))
		}
	}
}
