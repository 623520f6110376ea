package event

import "sync"

// Bus delivers events to a typed subscriber list, synchronously and in
// registration order. Publish serializes delivery under one mutex so each
// subscriber observes every mutation's events in global emission order.
//
// There is no replay: a subscriber registered after an event has fired never
// receives it. New consumers must request a full snapshot separately.
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the events to every subscriber on the calling goroutine.
// Passing a mutation's events in one call keeps the entity event strictly
// before its listChanged and statsChanged companions for every subscriber,
// even when mutations race.
func (b *Bus) Publish(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range events {
		for _, h := range b.handlers {
			h(e)
		}
	}
}
