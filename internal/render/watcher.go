package render

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports shader programs whose source files changed on disk. Events arrive on a
// background goroutine; Drain hands the collected names to the render thread, which is
// the only place programs may be rebuilt.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
}

// NewWatcher watches the stage directories under dir that exist.
func NewWatcher(dir string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		done:    make(chan struct{}),
		log:     log,
		pending: map[string]bool{},
	}
	for _, stage := range []string{vertexDir, fragmentDir, geometryDir} {
		p := filepath.Join(dir, stage)
		if st, err := os.Stat(p); err != nil || !st.IsDir() {
			continue
		}
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, ok := programName(ev.Name); ok {
				w.mu.Lock()
				w.pending[name] = true
				w.mu.Unlock()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", "err", err)
		}
	}
}

// programName maps a stage file path to the program it belongs to.
func programName(p string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case vertexExt, fragmentExt, geometryExt:
		return strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)), true
	}
	return "", false
}

// Drain returns the programs changed since the last call, sorted, and resets the set.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(w.pending))
	for n := range w.pending {
		names = append(names, n)
	}
	clear(w.pending)
	slices.Sort(names)
	return names
}

// Close stops the goroutine and releases the OS watch.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
