// internal/tui/watch.go
package tui

import (
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// debounceInterval collapses editor write bursts into one reload.
const debounceInterval = 100 * time.Millisecond

// configChangedMsg is sent when the watched config file changes on disk.
type configChangedMsg struct{}

// watchConfigFile creates a file system watcher for the config file.
// Returns nil if the file doesn't exist or watcher creation fails; the
// panel then runs without live reload.
func watchConfigFile(path string) tea.Cmd {
	watcher := initWatcher(path)
	if watcher == nil {
		return nil
	}
	return runWatcher(watcher, filepath.Base(path))
}

// initWatcher creates a watcher on the directory holding path. Editors
// replace files on save, so watching the file itself loses the watch on
// the first rename.
func initWatcher(path string) *fsnotify.Watcher {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("fsnotify: failed to create watcher: %v (live reload disabled)", err)
		return nil
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		log.Printf("fsnotify: failed to watch %s: %v (live reload disabled)", dir, err)
		return nil
	}

	return watcher
}

// runWatcher returns a tea.Cmd that blocks until a debounced change to
// the watched file name, then reports it. The watcher is closed on
// return; the caller re-arms by calling watchConfigFile again.
func runWatcher(watcher *fsnotify.Watcher, base string) tea.Cmd {
	return func() tea.Msg {
		defer func() { _ = watcher.Close() }()

		debounce := newDebounceTimer()
		defer debounce.Stop()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				resetDebounceTimer(debounce)

			case <-debounce.C:
				return configChangedMsg{}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("fsnotify: watcher error: %v", err)
				return nil
			}
		}
	}
}

// newDebounceTimer creates a stopped timer; its channel stays silent
// until the first reset.
func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

// resetDebounceTimer restarts the debounce window.
func resetDebounceTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounceInterval)
}
