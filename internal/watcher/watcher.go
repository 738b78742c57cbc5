// Package watcher implements spec.md §4.8: a per-Store filesystem watch
// that debounces a burst of changes into a single reindex. It is the
// client-facing half of file-change handling; internal/indexer does the
// actual scan→chunk→embed→write work each time the debounce timer fires.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/graph"
	"github.com/mvp-joe/project-cortex/internal/indexer"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Target identifies the Store a watch reindexes on change.
type Target struct {
	StoreID   coreid.StoreID
	RootDir   string // source tree to watch and, on reindex, to scan
	DataRoot  string // root passed to store.Initialize / graph.NewStorage
	Dimension int
}

func (t Target) storeDataDir() string {
	return filepath.Join(t.DataRoot, "stores", string(t.StoreID))
}

// OnReindex is invoked after a debounced reindex completes successfully.
type OnReindex func()

// OnError is invoked, instead of killing the watch, whenever any step of
// a watch's lifecycle fails (directory add, reindex, fsnotify internal
// error).
type OnError func(error)

// Watcher owns at most one active fsnotify watch per Store (spec §4.8:
// "At most one active watch per Store (idempotent)").
type Watcher struct {
	ix *indexer.Indexer

	mu     sync.Mutex
	active map[coreid.StoreID]*watch
}

// New builds a Watcher that reindexes through ix when a debounce timer
// fires.
func New(ix *indexer.Indexer) *Watcher {
	return &Watcher{ix: ix, active: make(map[coreid.StoreID]*watch)}
}

// Watch starts watching target.RootDir recursively for changes relevant
// to target.StoreID. Calling Watch again for a Store already being
// watched is a no-op (idempotent). debounce is the quiet period required
// before a burst of events triggers one reindex.
func (w *Watcher) Watch(ctx context.Context, target Target, debounce time.Duration, onReindex OnReindex, onError OnError) error {
	w.mu.Lock()
	if _, exists := w.active[target.StoreID]; exists {
		w.mu.Unlock()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("watcher: %w", err)
	}

	wctx, cancel := context.WithCancel(ctx)
	v := &watch{
		fsw:       fsw,
		target:    target,
		debounce:  debounce,
		onReindex: onReindex,
		onError:   onError,
		ctx:       wctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		reindex:   w.reindex,
	}

	if err := v.addDirsRecursively(target.RootDir); err != nil {
		fsw.Close()
		cancel()
		w.mu.Unlock()
		return fmt.Errorf("watcher: %w", err)
	}

	w.active[target.StoreID] = v
	w.mu.Unlock()

	go v.run()
	return nil
}

// Unwatch stops the watch for storeID, cancelling any pending debounce
// timer. Unwatching a Store with no active watch is a no-op.
func (w *Watcher) Unwatch(storeID coreid.StoreID) error {
	w.mu.Lock()
	v, exists := w.active[storeID]
	if !exists {
		w.mu.Unlock()
		return nil
	}
	delete(w.active, storeID)
	w.mu.Unlock()

	return v.stop()
}

// UnwatchAll stops every active watch.
func (w *Watcher) UnwatchAll() {
	w.mu.Lock()
	watches := make([]*watch, 0, len(w.active))
	for id, v := range w.active {
		watches = append(watches, v)
		delete(w.active, id)
	}
	w.mu.Unlock()

	for _, v := range watches {
		if err := v.stop(); err != nil {
			log.Printf("watcher: stopping watch: %v", err)
		}
	}
}

// reindex implements spec §4.8's "initialize the document store, run the
// indexer" step: a fresh store.Initialize per fire (cheap reload per its
// own contract), then one indexer.Run over the whole RootDir.
func (w *Watcher) reindex(ctx context.Context, target Target) error {
	s, err := store.Initialize(ctx, target.DataRoot, target.StoreID, target.Dimension)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer s.Close()

	dataDir := target.storeDataDir()
	gs, err := graph.NewStorage(dataDir)
	if err != nil {
		return fmt.Errorf("open graph storage: %w", err)
	}

	it := indexer.Target{
		StoreID:      target.StoreID,
		Store:        s,
		GraphStorage: gs,
		DataDir:      dataDir,
	}
	if err := w.ix.Run(ctx, it, indexer.Options{RootDir: target.RootDir, Incremental: true}, nil); err != nil {
		return fmt.Errorf("run indexer: %w", err)
	}
	return nil
}

// watch is the per-Store fsnotify event loop, directly descended from the
// teacher's fileWatcher: recursive directory watch, debounce timer reset
// on every relevant event, fire on expiry.
type watch struct {
	fsw       *fsnotify.Watcher
	target    Target
	debounce  time.Duration
	onReindex OnReindex
	onError   OnError
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	stopOnce  sync.Once
	reindex   func(ctx context.Context, target Target) error

	timerMu sync.Mutex
	timer   *time.Timer
}

func (v *watch) stop() error {
	var err error
	v.stopOnce.Do(func() {
		v.cancel()
		<-v.done
		err = v.fsw.Close()
	})
	return err
}

func (v *watch) run() {
	defer close(v.done)

	fireCh := make(chan struct{}, 1)
	for {
		select {
		case <-v.ctx.Done():
			v.stopTimer()
			return

		case event, ok := <-v.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := v.addDirsRecursively(event.Name); err != nil && v.onError != nil {
						v.onError(fmt.Errorf("watcher: watch new directory %s: %w", event.Name, err))
					}
				}
			}
			if !v.relevant(event) {
				continue
			}
			v.resetTimer(fireCh)

		case <-fireCh:
			if err := v.reindex(v.ctx, v.target); err != nil {
				if v.onError != nil {
					v.onError(err)
				}
				continue
			}
			if v.onReindex != nil {
				v.onReindex()
			}

		case err, ok := <-v.fsw.Errors:
			if !ok {
				return
			}
			if v.onError != nil {
				v.onError(fmt.Errorf("watcher: %w", err))
			}
		}
	}
}

func (v *watch) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return indexer.DefaultTextExtensions()[ext]
}

func (v *watch) resetTimer(fireCh chan struct{}) {
	v.timerMu.Lock()
	defer v.timerMu.Unlock()

	if v.timer != nil {
		if !v.timer.Stop() {
			select {
			case <-v.timer.C:
			default:
			}
		}
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (v *watch) stopTimer() {
	v.timerMu.Lock()
	defer v.timerMu.Unlock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// addDirsRecursively adds rootPath and every non-ignored subdirectory to
// the fsnotify watch (spec §4.8: "Ignore paths matching .git,
// node_modules, dist, build"), reusing internal/indexer's shared ignore
// set per SPEC_FULL.md §4.12.
func (v *watch) addDirsRecursively(rootPath string) error {
	ignore := indexer.DefaultIgnoreDirs()

	return filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootPath && ignore[d.Name()] {
			return filepath.SkipDir
		}
		if err := v.fsw.Add(path); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		return nil
	})
}
