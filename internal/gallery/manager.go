package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/stevelisz/ANiceClock/internal/cache"
	"github.com/stevelisz/ANiceClock/internal/events"
	"github.com/stevelisz/ANiceClock/internal/store"
)

// targetImageSize is the display size hint passed to the resolver.
const targetImageSize = 1920

// DefaultSlideDuration applies when no duration was persisted.
const DefaultSlideDuration = 10 * time.Second

// ErrIndexOutOfRange is returned by RemoveAt for an invalid index.
var ErrIndexOutOfRange = errors.New("photo index out of range")

// Manager owns the ordered set of selected asset handles, the active slide
// index, and the repeating slideshow timer. Images are resolved on demand
// through the Resolver and kept in a bounded LRU cache.
//
// All observable state is guarded by a single mutex; asynchronous
// resolutions finish by re-acquiring it. A resolution failure is silent:
// the slide goes blank, the handle stays in the list until the user removes
// it.
type Manager struct {
	resolver Resolver
	cache    *cache.LRU
	settings store.Store // may be nil
	bus      *events.Bus // may be nil

	mu          sync.Mutex
	handles     []string
	current     int
	duration    time.Duration
	image       []byte
	imageHandle string
	stop        chan struct{} // nil when the timer is not running
}

// NewManager creates a Manager seeded with a previously persisted handle
// list and slide duration. Handles referencing since-deleted assets are
// tolerated; they resolve to a blank slide until removed.
func NewManager(resolver Resolver, lru *cache.LRU, settings store.Store, bus *events.Bus, initial store.Settings) *Manager {
	duration := initial.SlideDuration
	if duration <= 0 {
		duration = DefaultSlideDuration
	}

	m := &Manager{
		resolver: resolver,
		cache:    lru,
		settings: settings,
		bus:      bus,
		duration: duration,
	}

	// Re-apply Add semantics to the persisted list so duplicates from an
	// older install collapse.
	seen := make(map[string]struct{}, len(initial.AssetIDs))
	for _, id := range initial.AssetIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		m.handles = append(m.handles, id)
	}

	if len(m.handles) > 0 {
		m.mu.Lock()
		m.loadCurrentLocked()
		m.mu.Unlock()
	}

	log.Printf("gallery: initialized with %d asset handles, duration %s", len(m.handles), duration)
	return m
}

// Add appends a handle to the slideshow order. Adding a handle that is
// already present is a no-op. The first handle added is loaded immediately.
func (m *Manager) Add(handle string) {
	m.mu.Lock()

	for _, h := range m.handles {
		if h == handle {
			m.mu.Unlock()
			return
		}
	}

	m.handles = append(m.handles, handle)
	if len(m.handles) == 1 {
		m.loadCurrentLocked()
	}
	m.persistHandlesLocked()
	m.mu.Unlock()

	m.publish(events.KindGalleryChanged, handle)
}

// RemoveAt removes the handle at index. The current index is adjusted so it
// stays in bounds: a removal before it shifts it down by one, removing the
// current slide reloads at the (possibly wrapped-to-zero) position or
// clears the image when the list became empty, and a removal after it
// changes nothing.
func (m *Manager) RemoveAt(index int) error {
	m.mu.Lock()

	if index < 0 || index >= len(m.handles) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	removed := m.handles[index]
	m.handles = append(m.handles[:index], m.handles[index+1:]...)
	m.cache.Remove(removed)

	switch {
	case index < m.current:
		m.current--
	case index == m.current:
		if len(m.handles) == 0 {
			m.current = 0
			m.clearImageLocked()
		} else {
			if m.current >= len(m.handles) {
				m.current = 0
			}
			m.loadCurrentLocked()
		}
	}

	m.persistHandlesLocked()
	m.mu.Unlock()

	m.publish(events.KindGalleryChanged, removed)
	return nil
}

// Clear empties the slideshow, resets the index, drops the loaded image and
// cache contents, and stops the timer.
func (m *Manager) Clear() {
	m.StopTimer()

	m.mu.Lock()
	m.handles = nil
	m.current = 0
	m.clearImageLocked()
	m.cache.Purge()
	m.persistHandlesLocked()
	m.mu.Unlock()

	m.publish(events.KindGalleryChanged, "")
}

// Advance moves to the next slide, wrapping at the end. No-op when empty.
func (m *Manager) Advance() {
	m.step(1)
}

// Retreat moves to the previous slide, wrapping at the start. No-op when
// empty.
func (m *Manager) Retreat() {
	m.step(-1)
}

func (m *Manager) step(delta int) {
	m.mu.Lock()

	if len(m.handles) == 0 {
		m.mu.Unlock()
		return
	}

	n := len(m.handles)
	m.current = (m.current + delta + n) % n
	index := m.current
	m.loadCurrentLocked()
	m.mu.Unlock()

	m.publish(events.KindSlideChanged, fmt.Sprintf("%d", index))
}

// StartTimer starts (or restarts) the repeating advance timer with the
// given interval.
func (m *Manager) StartTimer(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("slideshow interval must be positive, got %s", interval)
	}

	m.mu.Lock()
	m.stopTimerLocked()
	stop := make(chan struct{})
	m.stop = stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.Advance()
			}
		}
	}()

	return nil
}

// Start starts the timer with the configured slide duration.
func (m *Manager) Start() error {
	m.mu.Lock()
	d := m.duration
	m.mu.Unlock()
	return m.StartTimer(d)
}

// StopTimer stops the slideshow timer. Safe to call when none is running.
func (m *Manager) StopTimer() {
	m.mu.Lock()
	m.stopTimerLocked()
	m.mu.Unlock()
}

func (m *Manager) stopTimerLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

// SetInterval updates the configured slide duration. A running timer is
// restarted on the new interval with no drift carried over.
func (m *Manager) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("slideshow interval must be positive, got %s", d)
	}

	m.mu.Lock()
	m.duration = d
	running := m.stop != nil
	if m.settings != nil {
		if err := m.settings.SaveDuration(d); err != nil {
			log.Printf("gallery: failed to persist slide duration: %v", err)
		}
	}
	m.mu.Unlock()

	if running {
		return m.StartTimer(d)
	}
	return nil
}

// Running reports whether the slideshow timer is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop != nil
}

// Handles returns the slideshow order.
func (m *Manager) Handles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.handles...)
}

// Contains reports whether the handle is part of the slideshow.
func (m *Manager) Contains(handle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.handles {
		if h == handle {
			return true
		}
	}
	return false
}

// CurrentIndex returns the active slide index (0 when empty).
func (m *Manager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Duration returns the configured slide duration.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// CurrentImage returns the loaded image bytes and the handle they belong
// to; ok is false while no image is loaded.
func (m *Manager) CurrentImage() (data []byte, handle string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.image == nil {
		return nil, "", false
	}
	return m.image, m.imageHandle, true
}

// EnsureCurrentLoaded re-resolves the current slide if nothing is loaded,
// e.g. after a failed resolution once the underlying asset came back.
func (m *Manager) EnsureCurrentLoaded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.image == nil && len(m.handles) > 0 {
		m.loadCurrentLocked()
	}
}

// loadCurrentLocked resolves the image for the current index. Cache hits
// apply synchronously; misses resolve on a worker goroutine and re-acquire
// the lock to publish the result. Callers must hold m.mu.
func (m *Manager) loadCurrentLocked() {
	if len(m.handles) == 0 || m.current >= len(m.handles) {
		m.clearImageLocked()
		return
	}

	handle := m.handles[m.current]

	if data, ok := m.cache.Get(handle); ok {
		m.image = data
		m.imageHandle = handle
		m.publish(events.KindImageLoaded, handle)
		return
	}

	go func() {
		data, err := m.resolver.Resolve(context.Background(), handle, targetImageSize)
		if err != nil {
			// Silent failure: blank slide, handle stays until removed.
			log.Printf("gallery: failed to resolve asset %s: %v", handle, err)
			m.mu.Lock()
			m.clearImageLocked()
			m.mu.Unlock()
			m.publish(events.KindImageFailed, handle)
			return
		}

		m.cache.Put(handle, data)

		m.mu.Lock()
		m.image = data
		m.imageHandle = handle
		m.mu.Unlock()
		m.publish(events.KindImageLoaded, handle)
	}()
}

func (m *Manager) clearImageLocked() {
	m.image = nil
	m.imageHandle = ""
}

// persistHandlesLocked notifies the settings store of the new handle list.
// Callers must hold m.mu.
func (m *Manager) persistHandlesLocked() {
	if m.settings == nil {
		return
	}
	if err := m.settings.SaveAssetIDs(append([]string(nil), m.handles...)); err != nil {
		log.Printf("gallery: failed to persist asset handles: %v", err)
	}
}

func (m *Manager) publish(kind events.Kind, detail string) {
	if m.bus != nil {
		m.bus.Publish(kind, detail)
	}
}
