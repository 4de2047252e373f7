package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// ConfigWatcher reports changes to config.json made by other processes,
// such as `fluckybackup slack set` while the TUI is open.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	changes  chan struct{}
	debounce time.Duration
	logger   *zap.Logger
}

// NewConfigWatcher watches configDir for writes to config.json. The
// directory is watched rather than the file so that replace-by-rename
// saves and a not-yet-created file are both seen.
func NewConfigWatcher(configDir string, logger *zap.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", configDir, err)
	}

	return &ConfigWatcher{
		watcher:  watcher,
		path:     filepath.Clean(ConfigPath(configDir)),
		changes:  make(chan struct{}, 1),
		debounce: defaultDebounce,
		logger:   logger.Named("watch"),
	}, nil
}

// Changes receives a value after config.json settles following a write.
// It is closed when Run returns.
func (w *ConfigWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run watches until ctx is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}
