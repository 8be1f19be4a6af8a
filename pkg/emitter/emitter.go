package emitter

import (
	"errors"
	"sync"
)

// ErrNilHandler is returned by Subscribe when the handler is nil.
var ErrNilHandler = errors.New("emitter: nil handler")

// Handler receives the payload of one emission.
type Handler func(payload any) error

// Subscription identifies one registered handler.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
}

// Topic returns the topic the subscription listens on.
func (s Subscription) Topic() string {
	return s.topic
}

// Unsubscribe removes the handler. It is safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.Off(s)
	}
}

type entry struct {
	id uint64
	h  Handler
}

// Bus is a synchronous topic-keyed event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]entry
	nextID   uint64
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]entry),
	}
}

// Topic builds the "{namespace}:{event}" topic string.
func Topic(namespace, event string) string {
	return namespace + ":" + event
}

// On registers h for topic and returns its subscription.
// A nil handler yields a zero Subscription and is never invoked.
func (b *Bus) On(topic string, h Handler) Subscription {
	sub, _ := b.Subscribe(topic, h)
	return sub
}

// Subscribe is like On but reports a nil handler as ErrNilHandler.
func (b *Bus) Subscribe(topic string, h Handler) (Subscription, error) {
	if h == nil {
		return Subscription{}, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], entry{id: b.nextID, h: h})
	return Subscription{bus: b, topic: topic, id: b.nextID}, nil
}

// Off removes the handler identified by sub.
func (b *Bus) Off(sub Subscription) {
	if sub.bus != b {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[sub.topic]
	for i, e := range list {
		if e.id != sub.id {
			continue
		}
		next := make([]entry, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, sub.topic)
		} else {
			b.handlers[sub.topic] = next
		}
		return
	}
}

// Emit invokes every handler registered for topic with payload.
func (b *Bus) Emit(topic string, payload any) error {
	b.mu.RLock()
	// Off replaces slices instead of mutating them, so the header is a stable snapshot.
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, e := range handlers {
		if err := e.h(payload); err != nil {
			return err
		}
	}
	return nil
}

// HandlerCount returns the number of handlers registered for topic.
func (b *Bus) HandlerCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}

// Topics returns the topics that currently have handlers.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.handlers))
	for t := range b.handlers {
		topics = append(topics, t)
	}
	return topics
}

// Clear removes every handler.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]entry)
}
