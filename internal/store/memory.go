package store

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no settings have been persisted yet.
var ErrNotFound = errors.New("no saved settings")

// Settings is the persisted gallery state: the selected asset handles in
// slideshow order and the per-slide duration. This is the only state the
// core keeps across restarts.
type Settings struct {
	AssetIDs      []string
	SlideDuration time.Duration
}

// Store is the contract the settings persistence layer must satisfy. The
// gallery manager accepts initial state at construction and notifies the
// store on every mutation.
type Store interface {
	Load() (Settings, error)
	SaveAssetIDs(ids []string) error
	SaveDuration(d time.Duration) error
	Close() error
}

// MemoryStore is a concurrency-safe in-memory Store, used in tests and when
// no database path is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	settings Settings
	saved    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return Settings{}, ErrNotFound
	}

	out := s.settings
	out.AssetIDs = append([]string(nil), s.settings.AssetIDs...)
	return out, nil
}

func (s *MemoryStore) SaveAssetIDs(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.AssetIDs = append([]string(nil), ids...)
	s.saved = true
	return nil
}

func (s *MemoryStore) SaveDuration(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.SlideDuration = d
	s.saved = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
