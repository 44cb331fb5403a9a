package summarizer

import "context"

// Summarizer turns a transcript into a key points / action items summary
// using a locally hosted language model.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*Summary, error)
	// Describe names the model and host, for progress messages
	Describe() string
}

// Summary is the model output, kept opaque
type Summary struct {
	Text   string
	Model  string
	Stderr string
}
