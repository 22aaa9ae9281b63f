package scenario

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay debounces default reloads after a burst of file events
const reloadDelay = 250 * time.Millisecond

// Watch invalidates cached scenarios when their files change on disk. It
// returns once the watcher is registered; events are processed until ctx is
// done. onChange, if not nil, is called with the scenario ID of every change.
func (m *Manager) Watch(ctx context.Context, onChange func(id string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(m.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch scenario directory: %w", err)
	}

	m.logger.Info().Str("dir", m.dir).Msg("watching scenario directory")
	go m.processEvents(ctx, watcher, onChange)
	return nil
}

func (m *Manager) processEvents(ctx context.Context, watcher *fsnotify.Watcher, onChange func(id string)) {
	defer watcher.Close()

	var reloadTimer *time.Timer
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !IsScenarioFile(name) {
				continue
			}

			id := scenarioID(name)
			m.logger.Debug().
				Str("file", name).
				Str("op", event.Op.String()).
				Msg("scenario file changed")

			m.Invalidate(id)
			if onChange != nil {
				onChange(id)
			}

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, m.loadDefaultScenario)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error().Err(err).Msg("scenario watcher error")
		}
	}
}
