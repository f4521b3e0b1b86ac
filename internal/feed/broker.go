// Package feed fans controller state changes out to SSE subscribers.
package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Topics published by the controller.
const (
	TopicState     = "state"
	TopicSearch    = "search"
	TopicWatchlist = "watchlist"
	TopicQuote     = "quote"
)

// Event is a single feed message: a topic name plus a JSON payload.
type Event struct {
	Topic   string
	Payload string
}

// Broker distributes events to any number of subscribers. Slow subscribers
// drop events rather than block publishers.
type Broker struct {
	bufferSize int

	mu          sync.Mutex
	subscribers map[int64]chan Event
	nextID      atomic.Int64
}

// NewBroker returns a Broker whose subscriber channels buffer bufferSize
// events. Values below 1 are raised to 1.
func NewBroker(bufferSize int) *Broker {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Broker{
		bufferSize:  bufferSize,
		subscribers: make(map[int64]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, b.bufferSize)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish delivers evt to every subscriber. Subscribers with full buffers
// miss the event.
func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			slog.Debug("feed: dropping event for slow subscriber", "subscriber", id, "topic", evt.Topic)
		}
	}
}

// PublishJSON marshals v and publishes it under topic. Marshal failures are
// logged and dropped.
func (b *Broker) PublishJSON(topic string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Error("feed: marshal event payload", "topic", topic, "error", err)
		return
	}
	b.Publish(Event{Topic: topic, Payload: string(raw)})
}

// ClientCount returns the current number of subscribers.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
