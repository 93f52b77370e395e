package config

import (
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is the coalesce window for filesystem events: editors
// rewrite a file via a temp-file-then-rename sequence that fsnotify reports
// as several events in quick succession, so a single reload fires after
// the burst settles rather than once per raw event.
var watchDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on path's containing directory (watching
// the directory rather than the file itself survives editor atomic-save
// rename-swaps) and invokes onChange with the freshly decoded
// DifficultyConfig after each settled burst of writes. Decode errors are
// reported to stderr and otherwise ignored — a malformed edit leaves the
// previously loaded config in place rather than crashing the controller
// mid-match.
//
// Returns a stop function the caller must invoke to release the watcher. If
// the watcher cannot be created, Watch degrades to a no-op stop function; the
// caller keeps running on whatever config it already loaded.
func Watch(path string, onChange func(DifficultyConfig), stderr io.Writer) func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		reportWatchErr(stderr, err)
		return func() {}
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		reportWatchErr(stderr, err)
		_ = watcher.Close()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		var debounce *time.Timer
		reload := func() {
			cfg, err := Load(path)
			if err != nil {
				reportWatchErr(stderr, err)
				return
			}
			onChange(cfg)
		}
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !matchesPath(ev.Name, path) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				reportWatchErr(stderr, err)
			case <-done:
				if debounce != nil {
					debounce.Stop()
				}
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}
}

func reportWatchErr(stderr io.Writer, err error) {
	if stderr == nil {
		return
	}
	_, _ = io.WriteString(stderr, "config watch: "+err.Error()+"\n")
}

func matchesPath(eventName, path string) bool {
	a, err1 := filepath.Abs(eventName)
	b, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return eventName == path
	}
	return a == b
}
