package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

// debounceDelay coalesces bursts of editor writes into one rebuild.
const debounceDelay = 300 * time.Millisecond

// watchTargets lists what a change must touch to trigger a rebuild: anything
// below one of the trees, or one of the single files.
type watchTargets struct {
	trees []string
	files []string
}

// relevant reports whether a change to path should trigger a rebuild.
func (t watchTargets) relevant(path string) bool {
	if shouldIgnoreEvent(path) {
		return false
	}
	for _, f := range t.files {
		if path == f {
			return true
		}
	}
	for _, root := range t.trees {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// setupFileWatcher watches every tree recursively and the parent directory
// of every single file. Missing paths are skipped.
func setupFileWatcher(targets watchTargets) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range targets.trees {
		if st, err := os.Stat(root); err != nil || !st.IsDir() {
			continue
		}
		addDirsRecursive(watcher, root)
	}
	for _, f := range targets.files {
		dir := filepath.Dir(f)
		if err := watcher.Add(dir); err != nil {
			slog.Warn("watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}
	return watcher, nil
}

// handleFileEvent processes a filesystem event and triggers rebuild if needed.
func handleFileEvent(watcher *fsnotify.Watcher, targets watchTargets, ev fsnotify.Event, trigger func()) {
	if !targets.relevant(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// hidden files, including .DS_Store and editor lock files like .#foo
	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}

// newDebouncer returns the rebuild request channel and a trigger that sends
// one request after debounceDelay of quiet.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			requestRebuild(rebuildReq)
		})
	}
	return rebuildReq, trigger
}

// requestRebuild enqueues a rebuild unless one is already queued.
func requestRebuild(rebuildReq chan struct{}) {
	select {
	case rebuildReq <- struct{}{}:
	default:
	}
}
