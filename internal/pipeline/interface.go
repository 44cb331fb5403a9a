package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/stager"
)

// Pipeline runs upload -> staging -> transcription -> decoding ->
// summarization, strictly in order, halting on the first failure
type Pipeline interface {
	Run(ctx context.Context, up Upload, rep Reporter) (*Result, error)
	Close() error
}

// Stager persists an upload to a temporary file
type Stager interface {
	Stage(ctx context.Context, r io.Reader, filename string) (*stager.Staged, error)
}

// Upload is the audio handed in by the user. Name is only used to pick
// the staged file's extension.
type Upload struct {
	Name string
	Body io.Reader
}

// Result is what a successful run produced
type Result struct {
	RunID      string
	AudioPath  string
	Transcript string
	Charset    string
	Summary    string
	Model      string
	Duration   time.Duration
}
