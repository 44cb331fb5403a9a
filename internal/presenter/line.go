// Package presenter turns pipeline events into what a user sees: lines on
// a terminal or a view model for the web page.
package presenter

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
)

// Line returns the user-facing text for ev, or "" if the event is silent
func Line(ev pipeline.Event) string {
	switch ev.Kind {
	case pipeline.EventStageStarted:
		switch ev.Stage {
		case pipeline.StateStaging:
			return "Saving audio file..."
		case pipeline.StateTranscribing:
			return "Transcribing with Whisper..."
		case pipeline.StateDecoding:
			return "Reading transcript..."
		case pipeline.StateSummarizing:
			return fmt.Sprintf("Summarizing with %s...", ev.Text)
		}
	case pipeline.EventStageFinished:
		if ev.Stage == pipeline.StateStaging {
			return "✅ Saved to: " + ev.Text
		}
	case pipeline.EventDiagnostic:
		return ev.Label + ":\n" + ev.Text
	case pipeline.EventTranscriptReady:
		return "✅ Transcription complete!"
	case pipeline.EventFailed:
		return "❌ " + ev.Text
	case pipeline.EventCompleted:
		return "📝 Summary"
	}
	return ""
}
