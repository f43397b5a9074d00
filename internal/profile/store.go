package profile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/lance13c/formpilot/internal/logging"
)

// Store serves the current profile snapshot and refreshes it when the
// backing file changes or Refresh is called. Readers always see a complete
// snapshot; a reload swaps the slice wholesale.
type Store struct {
	mu      sync.RWMutex
	path    string
	fields  []Field
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore loads the initial snapshot from path.
func NewStore(path string) (*Store, error) {
	fields, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, fields: fields}, nil
}

// Fields returns the current snapshot.
func (s *Store) Fields() []Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields
}

// Refresh re-reads the backing file. On failure the previous snapshot is
// kept.
func (s *Store) Refresh() error {
	fields, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.fields = fields
	s.mu.Unlock()
	logging.Info("profile: reloaded %d fields from %s", len(fields), s.path)
	return nil
}

// Watch starts reloading the snapshot whenever the backing file is written.
// onReload, if non-nil, runs after each successful reload.
func (s *Store) Watch(onReload func()) error {
	if s.watcher != nil {
		return fmt.Errorf("profile store already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create profile watcher: %w", err)
	}
	// Watch the directory: editors replace files rather than writing in place.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch profile directory: %w", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go func() {
		base := filepath.Base(s.path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Refresh(); err != nil {
					logging.Warn("profile: reload failed: %v", err)
					continue
				}
				if onReload != nil {
					onReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("profile: watcher error: %v", err)
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the file watcher if one is running.
func (s *Store) Close() {
	if s.watcher != nil {
		close(s.done)
		s.watcher.Close()
		s.watcher = nil
	}
}
