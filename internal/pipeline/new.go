package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/transcriber"
)

// Options carries the per-run settings that are not collaborators
type Options struct {
	Language             string
	TranscriptionTimeout time.Duration
	SummarizationTimeout time.Duration
}

type implPipeline struct {
	stager      Stager
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	opts        Options
	logger      logger.Logger
	// one run at a time; the scratch directory and the models are not shared safely
	sem *semaphore
}

// New creates a new Pipeline instance
func New(st Stager, tr transcriber.Transcriber, sum summarizer.Summarizer, opts Options, log logger.Logger) Pipeline {
	return &implPipeline{
		stager:      st,
		transcriber: tr,
		summarizer:  sum,
		opts:        opts,
		logger:      log,
		sem:         newSemaphore(1),
	}
}

func (p *implPipeline) Close() error {
	return p.transcriber.Close()
}
