package dashboard

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tracktop/tracktop/internal/util"
)

// ConfigWatcher watches the config file for changes so the dashboard
// can pick up edited settings without a restart. The parent directory
// is watched rather than the file itself because most editors replace
// the file on save.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	events     chan struct{}
}

// NewConfigWatcher starts watching the directory containing path.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher:    watcher,
		configPath: filepath.Clean(path),
		events:     make(chan struct{}, 1),
	}

	if err := watcher.Add(filepath.Dir(cw.configPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	go cw.processEvents()

	return cw, nil
}

func (cw *ConfigWatcher) processEvents() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != cw.configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Coalesce bursts from editors that write in chunks.
			select {
			case cw.events <- struct{}{}:
			default:
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Config monitoring error: " + err.Error())
		}
	}
}

// Events signals that the config file was modified.
func (cw *ConfigWatcher) Events() <-chan struct{} {
	return cw.events
}

func (cw *ConfigWatcher) Close() error {
	return cw.watcher.Close()
}
