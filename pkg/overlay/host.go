package overlay

import "github.com/vango-dev/ovan/pkg/vdom"

// HostAdapter decides where rendered overlays are physically placed.
type HostAdapter interface {
	// RenderHost returns the container rendered by the provider (slotID "")
	// or by a slot. A nil node renders nothing.
	RenderHost(slotID string) *vdom.VNode

	// WrapOverlay places one rendered overlay. key is its render key.
	WrapOverlay(node *vdom.VNode, key string, isOpen bool) *vdom.VNode
}

// ListWrapper is implemented by adapters that also wrap the full list of
// overlays rendered by one region.
type ListWrapper interface {
	WrapOverlayList(slotID string, nodes []*vdom.VNode) *vdom.VNode
}

// SlotReleaser is implemented by adapters that keep per-slot state. A
// slot calls ReleaseSlot with its id once it is unmounted; the id is never
// rendered again.
type SlotReleaser interface {
	ReleaseSlot(slotID string)
}

// Adapter builds a HostAdapter from functions. Nil fields fall back to
// rendering no host and wrapping nothing.
type Adapter struct {
	Host     func(slotID string) *vdom.VNode
	Wrap     func(node *vdom.VNode, key string, isOpen bool) *vdom.VNode
	WrapList func(slotID string, nodes []*vdom.VNode) *vdom.VNode
}

// RenderHost implements HostAdapter.
func (a Adapter) RenderHost(slotID string) *vdom.VNode {
	if a.Host == nil {
		return nil
	}
	return a.Host(slotID)
}

// WrapOverlay implements HostAdapter.
func (a Adapter) WrapOverlay(node *vdom.VNode, key string, isOpen bool) *vdom.VNode {
	if a.Wrap == nil {
		return node
	}
	return a.Wrap(node, key, isOpen)
}

// WrapOverlayList implements ListWrapper.
func (a Adapter) WrapOverlayList(slotID string, nodes []*vdom.VNode) *vdom.VNode {
	if a.WrapList == nil {
		return vdom.Fragment(nodes)
	}
	return a.WrapList(slotID, nodes)
}

// DefaultAdapter renders overlays in place with no host container.
var DefaultAdapter HostAdapter = Adapter{}

// HostFunc returns an adapter whose host is produced by fn and which leaves
// overlays unwrapped.
func HostFunc(fn func(slotID string) *vdom.VNode) HostAdapter {
	return Adapter{Host: fn}
}

// StaticHost renders host at the provider only. wrap may be nil.
func StaticHost(host *vdom.VNode, wrap func(node *vdom.VNode, key string, isOpen bool) *vdom.VNode) HostAdapter {
	return Adapter{
		Host: func(slotID string) *vdom.VNode {
			if slotID != "" {
				return nil
			}
			return host
		},
		Wrap: wrap,
	}
}
