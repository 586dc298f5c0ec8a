package shellconfig

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-resolves the configuration whenever the backing file changes,
// without restarting the process (spec.md §4.4 combined with the ambient
// "config hot-reload" feature described in SPEC_FULL.md §B).
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	onReady func(*Config, map[string]*ResolvedShellConfig)
	done    chan struct{}
}

// NewWatcher starts watching path's containing directory (so editors that
// replace-by-rename still trigger an event) and calls onReload every time
// the file is recreated or written, with the newly loaded and resolved
// configuration.
func NewWatcher(path string, onReload func(*Config, map[string]*ResolvedShellConfig)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: path, fsw: fsw, onReady: onReload, done: make(chan struct{})}
	if err := fsw.Add(dirOf(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("config.reload_failed", "path", w.path, "error", err)
				continue
			}
			resolved := ResolveAll(cfg)
			slog.Info("config.reloaded", "path", w.path, "shells", len(resolved))
			w.onReady(cfg, resolved)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config.watch_error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}
