package overlay

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// slotStack tracks mounted slots. The most recent registration still present
// is the active slot.
type slotStack struct {
	mu  sync.Mutex
	ids []string
}

func (s *slotStack) push(slotID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, slotID)
}

// remove filters slotID out. It reports whether anything was removed.
func (s *slotStack) remove(slotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if id != slotID {
			kept = append(kept, id)
		}
	}
	removed := len(kept) != len(s.ids)
	s.ids = kept
	return removed
}

func (s *slotStack) active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[len(s.ids)-1]
}

func (s *slotStack) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// Slot is a mounted region that renders the overlays opened inside it, so
// their content sees the region's scope.
type Slot struct {
	id         string
	provider   *Provider
	owner      *scope.Owner
	lifecycles *lifecycleSet
	children   []any
	unmounted  atomic.Bool
}

// MountSlot mounts a slot of p under parent. Every mount gets a fresh id;
// overlays opened through a previous mount keep the old id and are rendered
// by nobody until they are opened again.
func MountSlot(parent *scope.Owner, p *Provider, children ...any) *Slot {
	s := &Slot{
		id:       p.sys.config.IDs.New(),
		provider: p,
		owner:    scope.NewOwner(parent),
		children: children,
	}
	s.lifecycles = newLifecycleSet(s.owner)
	p.sys.slotCtx.Provide(s.owner, s.id)

	p.slots.push(s.id)
	s.owner.OnCleanup(func() {
		s.unmounted.Store(true)
		s.lifecycles.dispose()
		s.Unregister()
		if r, ok := p.adapter.(SlotReleaser); ok {
			r.ReleaseSlot(s.id)
		}
	})
	p.logger.Debug("overlay slot registered", "slot", s.id)
	return s
}

// ID returns the id of this mount.
func (s *Slot) ID() string { return s.id }

// Owner returns the slot's scope.
func (s *Slot) Owner() *scope.Owner { return s.owner }

// Commands returns the command API bound to this slot.
func (s *Slot) Commands() Commands {
	return s.provider.sys.cmds.InSlot(s.id)
}

// Unregister removes the slot from the active stack while leaving it
// mounted, e.g. once its exit animation has finished. It is safe to call
// more than once.
func (s *Slot) Unregister() {
	if s.provider.slots.remove(s.id) {
		s.provider.logger.Debug("overlay slot unregistered", "slot", s.id)
	}
}

// Unmount disposes the slot and the content of its overlays. The overlays
// themselves stay registered.
func (s *Slot) Unmount() {
	s.owner.Dispose()
}

// Render renders the slot's children followed by its overlays. Children
// may be nodes, func(Commands) *vdom.VNode receiving the slot-bound
// commands, or func(*scope.Owner) *vdom.VNode.
func (s *Slot) Render(children ...any) *vdom.VNode {
	if len(children) == 0 {
		children = s.children
	}
	out := vdom.Fragment()
	if s.unmounted.Load() {
		return out
	}
	out.Children = appendRendered(out.Children, children, s.owner, s.Commands())

	p := s.provider
	adapter := p.adapter
	if host := adapter.RenderHost(s.id); host != nil {
		out.Children = append(out.Children, host)
	}

	items := p.Snapshot().InSlot(s.id)
	if len(items) == 0 {
		s.lifecycles.reconcile(p, nil, adapter)
		return out
	}
	nodes := s.lifecycles.reconcile(p, items, adapter)
	if lw, ok := adapter.(ListWrapper); ok {
		out.Children = append(out.Children, lw.WrapOverlayList(s.id, nodes))
	} else {
		out.Children = append(out.Children, nodes...)
	}
	return out
}

// Lifecycle returns the content this slot mounted under renderKey.
func (s *Slot) Lifecycle(renderKey string) (*Lifecycle, bool) {
	return s.lifecycles.get(renderKey)
}
