package index

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cursormark/internal/scheduler"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watcher keeps the index in step with vault changes made outside the
// editor. Refresh work is pushed through the scheduler so it never runs
// on the event loop.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// Watch registers the vault root and all non-hidden subdirectories and
// starts the event loop.
func Watch(root string, ix *Index, sched *scheduler.Scheduler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw}
	go w.run(root, ix, sched)
	return w, nil
}

func (w *Watcher) run(root string, ix *Index, sched *scheduler.Scheduler) {
	// Coalesce rapid events for the same path.
	timers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				w.addIfDir(event.Name)
			}

			if filepath.Ext(event.Name) != markdownExt {
				continue
			}
			rel, err := relPath(root, event.Name)
			if err != nil || isHidden(rel) {
				continue
			}

			if timer, ok := timers[rel]; ok {
				timer.Stop()
			}
			timers[rel] = time.AfterFunc(debounceDelay, func() {
				sched.Schedule(scheduler.Task{
					Name: "refresh " + rel,
					Execute: func() error {
						return SyncFile(root, rel, ix)
					},
				})
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("index: watch error: %v", err)
		}
	}
}

func (w *Watcher) addIfDir(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		log.Printf("index: failed to watch %s: %v", path, err)
	}
}

// Close stops the watcher. Pending debounce timers may still enqueue a
// final refresh, which is harmless.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
