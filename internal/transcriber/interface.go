package transcriber

import "context"

// Transcriber turns a staged audio file into a transcript
type Transcriber interface {
	// Transcribe runs the speech engine on audioPath. The returned
	// Transcription carries the engine's captured output streams even when
	// err is non-nil, so callers can surface them.
	Transcribe(ctx context.Context, audioPath, language string) (*Transcription, error)
	// Close releases engine resources such as a resident worker process
	Close() error
}

// Transcription is the engine result. Engines that return text directly set
// Text; engines that write a file set Artifact and/or ScratchDir and leave
// decoding to the caller.
type Transcription struct {
	Text string

	// Artifact is the exact output file when the engine's naming is known
	Artifact string
	// ScratchDir is where the engine wrote output; used when Artifact is empty
	ScratchDir string
	// Ext is the expected output file extension, including the dot
	Ext string

	Stdout string
	Stderr string

	cleanup func()
}

// NeedsDecoding reports whether the transcript must be read from disk
func (t *Transcription) NeedsDecoding() bool {
	return t.Artifact != "" || t.ScratchDir != ""
}

// Release removes any private scratch directory created for this call
func (t *Transcription) Release() {
	if t != nil && t.cleanup != nil {
		t.cleanup()
		t.cleanup = nil
	}
}
