package pipeline

import "errors"

// Error kinds, matched with errors.Is against a *StageError
var (
	ErrStaging         = errors.New("staging failed")
	ErrTranscription   = errors.New("transcription failed")
	ErrEmptyTranscript = errors.New("empty transcript")
	ErrSummarization   = errors.New("summarization failed")
)

// StageError is a fatal failure that halted a run. Message is what the
// user sees and already contains the raw diagnostic text.
type StageError struct {
	Stage      State
	Kind       error
	Message    string
	Diagnostic string
	Err        error
}

func (e *StageError) Error() string {
	return e.Message
}

func (e *StageError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
