package events

import (
	"testing"
	"time"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	_, ch1 := bus.Subscribe()
	_, ch2 := bus.Subscribe()

	bus.Publish(KindSlideChanged, "3")

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Kind != KindSlideChanged || evt.Detail != "3" {
				t.Fatalf("got %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)
	bus.Unsubscribe(id) // unknown id is ignored

	if _, open := <-ch; open {
		t.Fatal("channel should be closed after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(KindWeatherUpdated, "")
}

// TestBusPublishNeverBlocks: a full subscriber buffer drops events instead
// of stalling the publisher.
func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus()
	_, ch := bus.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(KindGalleryChanged, "")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The buffer holds some events; the rest were dropped.
	if len(ch) == 0 {
		t.Fatal("expected at least one buffered event")
	}
}
