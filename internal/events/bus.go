package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a state-change notification.
type Kind string

const (
	KindWeatherUpdated Kind = "weather-updated"
	KindWeatherError   Kind = "weather-error"
	KindGalleryChanged Kind = "gallery-changed"
	KindSlideChanged   Kind = "slide-changed"
	KindImageLoaded    Kind = "image-loaded"
	KindImageFailed    Kind = "image-failed"
)

// Event is one state-change notification published to subscribers.
type Event struct {
	Kind   Kind      `json:"kind"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Bus delivers events to registered subscribers. Publishing never blocks:
// a subscriber whose channel is full misses the event. Consumers that need
// full state should re-read it from the owning manager, not replay events.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Bus) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans the event out to all current subscribers.
func (b *Bus) Publish(kind Kind, detail string) {
	evt := Event{Kind: kind, Detail: detail, At: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
