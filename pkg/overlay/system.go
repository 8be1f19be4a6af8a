package overlay

import (
	"github.com/vango-dev/ovan/pkg/emitter"
	"github.com/vango-dev/ovan/pkg/id"
	"github.com/vango-dev/ovan/pkg/scope"
)

// OverlayContextName names the provider context in lookup errors.
const OverlayContextName = "ovan/OverlayContext"

// System is one independent overlay system: a namespaced command API plus
// the contexts its Provider and Slots install. Systems never observe each
// other's overlays, even on a shared bus.
type System struct {
	name   string
	config Config
	cmds   Commands

	overlayCtx *scope.Context[*Provider]
	slotCtx    *scope.Context[string]
}

// NewSystem creates an overlay system. An empty name is replaced by a
// generated one.
func NewSystem(name string, opts ...Option) *System {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.normalize()

	if name == "" {
		name = id.New()
	}

	return &System{
		name:       name,
		config:     config,
		cmds:       NewCommands(name, config.Bus, config.IDs),
		overlayCtx: scope.CreateContext[*Provider](OverlayContextName, nil),
		slotCtx:    scope.CreateContext("ovan/SlotContext", ""),
	}
}

// Name returns the system name.
func (s *System) Name() string { return s.name }

// Prefix returns the event namespace of the system.
func (s *System) Prefix() string { return s.cmds.Prefix() }

// Commands returns the command API with no ambient slot.
func (s *System) Commands() Commands { return s.cmds }

// Bus returns the event bus commands travel on.
func (s *System) Bus() *emitter.Bus { return s.config.Bus }

// Scheduler returns the frame scheduler.
func (s *System) Scheduler() *scope.Scheduler { return s.config.Scheduler }

// Config returns the resolved configuration.
func (s *System) Config() Config { return s.config }

// UseProvider returns the provider enclosing owner, or E101 when none does.
func (s *System) UseProvider(owner *scope.Owner) (*Provider, error) {
	p, err := s.overlayCtx.Require(owner)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UseCurrent returns the current overlay id of the enclosing provider.
func (s *System) UseCurrent(owner *scope.Owner) (string, error) {
	p, err := s.UseProvider(owner)
	if err != nil {
		return "", err
	}
	return p.Current(), nil
}

// UseState returns the registry of the enclosing provider.
func (s *System) UseState(owner *scope.Owner) (*State, error) {
	p, err := s.UseProvider(owner)
	if err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}

// UseCommands returns the command API bound to the nearest slot enclosing
// owner, or to no slot.
func (s *System) UseCommands(owner *scope.Owner) Commands {
	return s.cmds.InSlot(s.slotCtx.Use(owner))
}

// MountSlot mounts a slot under parent, which must be inside a provider.
func (s *System) MountSlot(parent *scope.Owner, children ...any) (*Slot, error) {
	p, err := s.UseProvider(parent)
	if err != nil {
		return nil, err
	}
	return MountSlot(parent, p, children...), nil
}

// Mount mounts the provider under parent. children render before the host
// and the root-level overlays; besides nodes they may be
// func(*scope.Owner) *vdom.VNode, called with the provider's scope.
func (s *System) Mount(parent *scope.Owner, children ...any) *Provider {
	return mountProvider(s, parent, children)
}
