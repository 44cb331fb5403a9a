// Package stager persists uploaded audio to a durable temporary file so an
// external transcription process can read it.
package stager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
)

// Staged is a temporary audio file owned by exactly one pipeline run
type Staged struct {
	Path string

	keep   bool
	logger logger.Logger
}

// Stager writes uploads into dir
type Stager struct {
	dir    string
	keep   bool
	logger logger.Logger
}

// New creates a Stager placing files in dir. If keep is true, Release
// leaves files on disk for debugging.
func New(dir string, keep bool, log logger.Logger) *Stager {
	return &Stager{dir: dir, keep: keep, logger: log}
}

// Suffix returns ".mp3" for names ending in .mp3 and ".wav" otherwise
func Suffix(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".mp3") {
		return ".mp3"
	}
	return ".wav"
}

// Stage copies r into a uniquely named file and syncs it to stable storage
// before returning. On any failure no file is left behind. Callers check
// the file still exists before handing it on.
func (s *Stager) Stage(ctx context.Context, r io.Reader, filename string) (*Staged, error) {
	tmp, err := os.CreateTemp(s.dir, "meeting-*"+Suffix(filename))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	fail := func(step string, err error) (*Staged, error) {
		tmp.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		return fail("write audio", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync audio", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close audio: %w", err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s.logger.Debug(ctx, "Staged %d bytes from %s to %s", n, filename, path)
	return &Staged{Path: path, keep: s.keep, logger: s.logger}, nil
}

// Release deletes the staged file unless retention was requested.
// It is safe to call more than once.
func (f *Staged) Release(ctx context.Context) {
	if f == nil || f.keep {
		return
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.Warn(ctx, "Failed to cleanup staged audio %s: %v", f.Path, err)
		return
	}
	f.logger.Debug(ctx, "Cleaned up staged audio: %s", f.Path)
}
