package overlay

import (
	"github.com/vango-dev/ovan/internal/errors"
	"github.com/vango-dev/ovan/pkg/emitter"
	"github.com/vango-dev/ovan/pkg/id"
)

// OpenOption configures a single Open call.
type OpenOption func(*openOptions)

type openOptions struct {
	overlayID string
	slotID    string
	slotSet   bool
}

// WithID opens the overlay under an explicit id instead of a generated one.
// Reusing the id of a closed overlay re-opens it in place.
func WithID(overlayID string) OpenOption {
	return func(o *openOptions) {
		o.overlayID = overlayID
	}
}

// WithSlot assigns the overlay to slotID, overriding the ambient slot.
// WithSlot("") forces rendering at the provider.
func WithSlot(slotID string) OpenOption {
	return func(o *openOptions) {
		o.slotID = slotID
		o.slotSet = true
	}
}

// Commands is the imperative API of one overlay system. The zero value is
// not usable; obtain one from System.Commands or UseCommands.
type Commands struct {
	prefix string
	bus    *emitter.Bus
	ids    id.Generator
	slotID string
}

// NewCommands builds the command API for the system named name.
func NewCommands(name string, bus *emitter.Bus, ids id.Generator) Commands {
	if ids == nil {
		ids = id.Default
	}
	return Commands{
		prefix: Prefix(name),
		bus:    bus,
		ids:    ids,
	}
}

// Prefix returns the event namespace for the system named name.
func Prefix(name string) string {
	return name + "/ovan"
}

// Prefix returns the event namespace the commands are emitted under.
func (c Commands) Prefix() string {
	return c.prefix
}

// Slot returns the ambient slot id ("" outside any slot).
func (c Commands) Slot() string {
	return c.slotID
}

// InSlot returns a copy whose Open calls default to slotID.
func (c Commands) InSlot(slotID string) Commands {
	c.slotID = slotID
	return c
}

func (c Commands) emit(event string, payload any) error {
	return c.bus.Emit(emitter.Topic(c.prefix, event), payload)
}

// Open registers an overlay rendered by controller and returns its id.
// The render key is always freshly generated. An error from the provider,
// such as E100 for an id that is already open, is returned as is.
func (c Commands) Open(controller Controller, opts ...OpenOption) (string, error) {
	if controller == nil {
		return "", errors.New("E103")
	}

	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	overlayID := o.overlayID
	if overlayID == "" {
		overlayID = c.ids.New()
	}
	slotID := c.slotID
	if o.slotSet {
		slotID = o.slotID
	}

	err := c.emit(EventOpen, OpenEvent{
		Controller: controller,
		OverlayID:  overlayID,
		RenderKey:  c.ids.New(),
		SlotID:     slotID,
	})
	if err != nil {
		return "", err
	}
	return overlayID, nil
}

// Close starts the close transition. The overlay stays registered until Unmount.
func (c Commands) Close(overlayID string) error {
	return c.emit(EventClose, overlayID)
}

// Unmount removes the overlay immediately.
func (c Commands) Unmount(overlayID string) error {
	return c.emit(EventUnmount, overlayID)
}

// CloseAll closes every overlay.
func (c Commands) CloseAll() error {
	return c.emit(EventCloseAll, nil)
}

// UnmountAll removes every overlay.
func (c Commands) UnmountAll() error {
	return c.emit(EventUnmountAll, nil)
}
