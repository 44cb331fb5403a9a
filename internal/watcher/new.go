package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
)

// settleDelay gives the writer of a new file time to finish
const settleDelay = 500 * time.Millisecond

// New creates a Watcher on inbox. Files are handed to handler one at a
// time, in the order they appear.
func New(inbox string, handler EventHandler, log logger.Logger) (Watcher, error) {
	if err := os.MkdirAll(inbox, 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inbox); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inbox:   inbox,
		handler: handler,
		logger:  log,
		watcher: watcher,
		settle:  settleDelay,
		queue:   make(chan string, 64),
	}, nil
}
