package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"medviz/log"
)

// watchSettleDelay is how long the watcher waits for directory churn to
// settle before rebuilding. Script copies and editor saves produce
// bursts of events.
const watchSettleDelay = 300 * time.Millisecond

// Watcher watches the script directories and invokes a callback once per
// settled burst of changes. The callback runs on the watcher goroutine;
// callers hand off to their own event loop.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	onChange  func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Watch starts watching dirs. Directories that cannot be watched are
// skipped with a warning so a partially valid config still gets live
// updates for the rest.
func Watch(dirs []string, exts []string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		onChange:  onChange,
		done:      make(chan struct{}),
	}

	watched := 0
	for _, dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			log.WarningLog.Printf("cannot watch script directory %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		fsWatcher.Close()
		return nil, fmt.Errorf("no script directory could be watched")
	}

	go w.loop(exts)

	return w, nil
}

func (w *Watcher) loop(exts []string) {
	// Watch errors tend to repeat; don't flood the log.
	everyN := log.NewEvery(60 * time.Second)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event, exts) {
				continue
			}
			w.trigger()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if everyN.ShouldLog() {
				log.WarningLog.Printf("script watcher error: %v", err)
			}
		case <-w.done:
			return
		}
	}
}

// relevant filters events down to creations, removals and renames of
// script files. Writes are ignored: editing a script's contents does not
// change the menu.
func (w *Watcher) relevant(event fsnotify.Event, exts []string) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return matchesExt(event.Name, exts)
}

// trigger schedules the callback after the settle delay, cancelling any
// previously scheduled run.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchSettleDelay, w.onChange)
}

// Close stops the watcher and cancels any pending callback.
func (w *Watcher) Close() error {
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.fsWatcher.Close()
}
