// Package events fans node events out to any number of subscribers, such as
// websocket clients watching blocks being mined.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is how many events a subscriber can fall behind before
// events are dropped for it. Send never blocks on a slow subscriber.
const messageBuffer = 100

// Events maintains the set of subscribers keyed by a unique id.
type Events struct {
	mu   sync.RWMutex
	subs map[string]chan string
	shut bool
}

// New constructs an events hub with no subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Acquire registers the id and returns the channel its events arrive on.
// Acquiring an id twice returns the same channel.
func (evt *Events) Acquire(id string) (<-chan string, error) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if evt.shut {
		return nil, fmt.Errorf("events shutdown, can't acquire %q", id)
	}

	ch, exists := evt.subs[id]
	if !exists {
		ch = make(chan string, messageBuffer)
		evt.subs[id] = ch
	}

	return ch, nil
}

// Release closes and removes the channel that was provided by the call
// to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Send delivers the message to every subscriber that has room for it.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Count returns the number of subscribers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Shutdown closes every subscriber channel and stops new subscriptions.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
	evt.shut = true
}
