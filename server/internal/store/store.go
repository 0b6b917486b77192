package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/launchdash/launchdash/server/internal/launch"
)

// Loader builds a fresh table, typically by re-reading the dataset file.
type Loader func() (*launch.Table, error)

// Store is a thread-safe holder for the active launch table.
type Store struct {
	mu       sync.RWMutex
	table    *launch.Table
	loadedAt time.Time
	subs     []func(*launch.Table)
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Store serving t.
func New(t *launch.Table) *Store {
	s := &Store{table: t, now: time.Now}
	s.loadedAt = s.now()
	return s
}

// Table returns the active table. Callers may keep using it after a swap.
func (s *Store) Table() *launch.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// LoadedAt returns when the active table was installed.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Swap installs t as the active table and notifies subscribers.
func (s *Store) Swap(t *launch.Table) {
	s.mu.Lock()
	s.table = t
	s.loadedAt = s.now()
	subs := make([]func(*launch.Table), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
}

// Subscribe registers fn to be called with every newly swapped-in table.
// fn runs on the goroutine that called Swap and must not block.
func (s *Store) Subscribe(fn func(*launch.Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Reload runs load and swaps in the result. On error the active table is
// left untouched.
func (s *Store) Reload(load Loader) error {
	t, err := load()
	if err != nil {
		return err
	}
	s.Swap(t)
	return nil
}

// Watch reloads the dataset at path with load whenever the file is written
// or replaced. onResult, if non-nil, is called after every attempt. Watch
// blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so atomic renames
// are seen too.
func (s *Store) Watch(ctx context.Context, path string, load Loader, onResult func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	slog.Info("store: watching dataset", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			err := s.Reload(load)
			if err != nil {
				slog.Error("store: dataset reload failed, keeping previous table",
					"path", abs, "err", err)
			} else {
				slog.Info("store: dataset reloaded", "path", abs, "records", s.Table().Len())
			}
			if onResult != nil {
				onResult(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("store: watcher error", "err", err)
		}
	}
}
