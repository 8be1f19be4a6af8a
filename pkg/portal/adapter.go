package portal

import (
	"sync"

	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// HostTestID marks host containers rendered by the adapters.
const HostTestID = "overlay-host"

// Adapter renders t's host at the provider and portals every overlay into it.
func Adapter(t *Teleporter) overlay.HostAdapter {
	return overlay.Adapter{
		Host: func(slotID string) *vdom.VNode {
			if slotID != "" {
				return nil
			}
			return t.PortalHost(nil, vdom.Data("testid", HostTestID))
		},
		Wrap: func(node *vdom.VNode, key string, _ bool) *vdom.VNode {
			return t.Portal(key, node)
		},
	}
}

// SlotPortals gives every slot its own host so one slot's portal never
// replaces another's content. Overlays opened outside any slot render in
// place after the provider's host.
type SlotPortals struct {
	name string

	mu          sync.Mutex
	teleporters map[string]*Teleporter
}

// SlotAdapter returns an adapter with one teleporter per slot.
func SlotAdapter(name string) *SlotPortals {
	return &SlotPortals{
		name:        name,
		teleporters: make(map[string]*Teleporter),
	}
}

// Teleporter returns the teleporter of slotID, creating it on first use.
func (a *SlotPortals) Teleporter(slotID string) *Teleporter {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.teleporters[slotID]
	if !ok {
		name := a.name
		if slotID != "" {
			name += "-" + slotID
		}
		t = NewTeleporter(name)
		a.teleporters[slotID] = t
	}
	return t
}

// ReleaseSlot implements overlay.SlotReleaser. It forgets the teleporter
// of an unmounted slot.
func (a *SlotPortals) ReleaseSlot(slotID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.teleporters, slotID)
}

// Len returns the number of live teleporters.
func (a *SlotPortals) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.teleporters)
}

// RenderHost implements overlay.HostAdapter.
func (a *SlotPortals) RenderHost(slotID string) *vdom.VNode {
	return a.Teleporter(slotID).PortalHost(nil, vdom.Data("testid", HostTestID), vdom.Data("slot", slotID))
}

// WrapOverlay implements overlay.HostAdapter.
func (a *SlotPortals) WrapOverlay(node *vdom.VNode, _ string, _ bool) *vdom.VNode {
	return node
}

// WrapOverlayList implements overlay.ListWrapper.
func (a *SlotPortals) WrapOverlayList(slotID string, nodes []*vdom.VNode) *vdom.VNode {
	return a.Teleporter(slotID).Portal(slotID, vdom.Fragment(nodes))
}
