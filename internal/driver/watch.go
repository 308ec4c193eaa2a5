package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"astbridge/internal/foreign"
)

// DefaultDebounce collects bursts of file events before a re-run.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changed unit dumps under a set of directories.
type Watcher struct {
	w        *fsnotify.Watcher
	exclude  []string
	debounce time.Duration
}

// NewWatcher watches roots and all their subdirectories.
func NewWatcher(roots, exclude []string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	wt := &Watcher{w: w, exclude: exclude, debounce: debounce}
	for _, root := range roots {
		if err := wt.addTree(root); err != nil {
			w.Close()
			return nil, err
		}
	}
	return wt, nil
}

func (wt *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && excluded(path, wt.exclude) {
			return filepath.SkipDir
		}
		return wt.w.Add(path)
	})
}

// Close stops watching.
func (wt *Watcher) Close() error { return wt.w.Close() }

// Run calls onChange with the sorted set of dumps written or created since
// the last call, after the debounce interval has passed quietly. Removed
// dumps are not reported. Run returns when ctx is done or the watcher fails.
func (wt *Watcher) Run(ctx context.Context, onChange func([]string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(wt.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case ev, ok := <-wt.w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if ev.Op&fsnotify.Create != 0 {
				// new subdirectories
				_ = wt.addTree(ev.Name)
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !foreign.IsDumpPath(ev.Name) || excluded(ev.Name, wt.exclude) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(wt.debounce)
		case err, ok := <-wt.w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return err
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)
			onChange(changed)
		}
	}
}
