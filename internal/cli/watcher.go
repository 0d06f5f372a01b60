package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debouncer collapses bursts of triggers into one call after a quiet period.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	delay  time.Duration
	action func()
}

func newDebouncer(delay time.Duration, action func()) *debouncer {
	return &debouncer{delay: delay, action: action}
}

// Trigger restarts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.action)
}

// Cancel drops a pending call.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fileWatcher reports changes to a fixed set of files. It watches their
// parent directories so that editors replacing a file by rename are seen.
type fileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	files     map[string]bool
	logger    *log.Logger
}

func newFileWatcher(logger *log.Logger, delay time.Duration, onChange func(), paths ...string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	fw := &fileWatcher{
		watcher:   w,
		debouncer: newDebouncer(delay, onChange),
		files:     make(map[string]bool, len(paths)),
		logger:    logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Run dispatches events until ctx is done, then closes the watcher.
func (fw *fileWatcher) Run(ctx context.Context) error {
	defer fw.watcher.Close()
	defer fw.debouncer.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			fw.debouncer.Trigger()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("watch error", "error", err)
		}
	}
}

// runGroup tracks watch runs. After Close no new run starts, so a debounce
// timer firing late cannot race the final wait.
type runGroup struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Go starts fn unless the group is closed and reports whether it did.
func (g *runGroup) Go(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
	return true
}

// Close stops new runs and waits for the running ones.
func (g *runGroup) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}
