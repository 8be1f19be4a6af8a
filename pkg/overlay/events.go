package overlay

import (
	"fmt"

	"github.com/vango-dev/ovan/pkg/emitter"
)

// Event names carried on the bus, suffixed to a system's prefix.
const (
	EventOpen       = "open"
	EventClose      = "close"
	EventUnmount    = "unmount"
	EventCloseAll   = "closeAll"
	EventUnmountAll = "unmountAll"
)

// OpenEvent is the payload of an open command.
type OpenEvent struct {
	Controller Controller
	OverlayID  string
	RenderKey  string
	SlotID     string
}

// EventHandlers receives the commands of one overlay system. Nil fields are
// ignored.
type EventHandlers struct {
	Open       func(ev OpenEvent) error
	Close      func(overlayID string) error
	Unmount    func(overlayID string) error
	CloseAll   func() error
	UnmountAll func() error
}

// Subscribe registers handlers for every command event under prefix and
// returns a function that removes them.
func Subscribe(bus *emitter.Bus, prefix string, h EventHandlers) (unsubscribe func()) {
	subs := []emitter.Subscription{
		bus.On(emitter.Topic(prefix, EventOpen), func(payload any) error {
			if h.Open == nil {
				return nil
			}
			ev, ok := payload.(OpenEvent)
			if !ok {
				return payloadError(EventOpen, payload)
			}
			return h.Open(ev)
		}),
		bus.On(emitter.Topic(prefix, EventClose), idHandler(EventClose, h.Close)),
		bus.On(emitter.Topic(prefix, EventUnmount), idHandler(EventUnmount, h.Unmount)),
		bus.On(emitter.Topic(prefix, EventCloseAll), func(any) error {
			if h.CloseAll == nil {
				return nil
			}
			return h.CloseAll()
		}),
		bus.On(emitter.Topic(prefix, EventUnmountAll), func(any) error {
			if h.UnmountAll == nil {
				return nil
			}
			return h.UnmountAll()
		}),
	}

	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}

func idHandler(event string, fn func(string) error) emitter.Handler {
	return func(payload any) error {
		if fn == nil {
			return nil
		}
		id, ok := payload.(string)
		if !ok {
			return payloadError(event, payload)
		}
		return fn(id)
	}
}

func payloadError(event string, payload any) error {
	return fmt.Errorf("overlay: unexpected %s payload %T", event, payload)
}
