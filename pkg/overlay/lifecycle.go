package overlay

import (
	"context"
	"sync"

	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// Lifecycle is the mounted instance of one overlay's content, keyed by its
// render key. It lives from the first render that includes the item until
// the item leaves its region, the region unmounts, or the render key changes.
type Lifecycle struct {
	provider  *Provider
	overlayID string
	renderKey string
	owner     *scope.Owner
	open      *scope.Task
}

// mountLifecycle mounts content for item under parent. When the item has
// never mounted, an OPEN is scheduled for the next frame so the content
// first renders closed. The task is canceled if the content unmounts first.
func mountLifecycle(p *Provider, parent *scope.Owner, item Item) *Lifecycle {
	lc := &Lifecycle{
		provider:  p,
		overlayID: item.ID,
		renderKey: item.RenderKey,
		owner:     scope.NewOwner(parent),
	}

	if !item.IsMounted {
		overlayID := item.ID
		lc.open = p.scheduler.Schedule(func() {
			p.dispatchLogged(context.Background(), Open(overlayID))
		})
		lc.owner.OnCleanup(func() {
			if lc.open.Cancel() {
				p.logger.Debug("overlay open canceled", "overlay", overlayID, "key", lc.renderKey)
			}
		})
		p.logger.Debug("overlay open scheduled", "overlay", overlayID, "key", lc.renderKey)
	}
	return lc
}

// OverlayID returns the id of the overlay this content belongs to.
func (lc *Lifecycle) OverlayID() string { return lc.overlayID }

// RenderKey returns the render key the content was mounted under.
func (lc *Lifecycle) RenderKey() string { return lc.renderKey }

// Owner returns the scope of the content.
func (lc *Lifecycle) Owner() *scope.Owner { return lc.owner }

// OpenPending reports whether the deferred OPEN is still waiting for a frame.
func (lc *Lifecycle) OpenPending() bool {
	return lc.open != nil && !lc.open.Ran() && !lc.open.Canceled()
}

// Render invokes the item's controller. Close and Unmount dispatch straight
// to the provider that owns the registry.
func (lc *Lifecycle) Render(item Item) *vdom.VNode {
	if item.Controller == nil {
		return nil
	}
	p := lc.provider
	overlayID := lc.overlayID
	return item.Controller(ControllerProps{
		OverlayID: overlayID,
		IsOpen:    item.IsOpen,
		Close: func() {
			p.dispatchLogged(context.Background(), Close(overlayID))
		},
		Unmount: func() {
			p.dispatchLogged(context.Background(), Remove(overlayID))
		},
		Owner: lc.owner,
	})
}

// Dispose unmounts the content, canceling a pending OPEN.
func (lc *Lifecycle) Dispose() {
	lc.owner.Dispose()
}

// lifecycleSet holds the mounted content of one region.
type lifecycleSet struct {
	mu     sync.Mutex
	parent *scope.Owner
	byKey  map[string]*Lifecycle
}

func newLifecycleSet(parent *scope.Owner) *lifecycleSet {
	return &lifecycleSet{
		parent: parent,
		byKey:  make(map[string]*Lifecycle),
	}
}

// reconcile mounts content for items that are new, unmounts content whose
// item is gone, and renders every item wrapped by adapter and keyed by its
// render key.
func (s *lifecycleSet) reconcile(p *Provider, items []Item, adapter HostAdapter) []*vdom.VNode {
	s.mu.Lock()
	live := make(map[string]struct{}, len(items))
	mounted := make([]*Lifecycle, len(items))
	for i, it := range items {
		live[it.RenderKey] = struct{}{}
		lc, ok := s.byKey[it.RenderKey]
		if !ok || lc.overlayID != it.ID {
			if ok {
				lc.Dispose()
			}
			lc = mountLifecycle(p, s.parent, it)
			s.byKey[it.RenderKey] = lc
		}
		mounted[i] = lc
	}
	var stale []*Lifecycle
	for key, lc := range s.byKey {
		if _, ok := live[key]; !ok {
			stale = append(stale, lc)
			delete(s.byKey, key)
		}
	}
	s.mu.Unlock()

	for _, lc := range stale {
		lc.Dispose()
	}

	nodes := make([]*vdom.VNode, 0, len(items))
	for i, it := range items {
		node := adapter.WrapOverlay(mounted[i].Render(it), it.RenderKey, it.IsOpen)
		nodes = append(nodes, vdom.Keyed(it.RenderKey, node))
	}
	return nodes
}

// get returns the content mounted under renderKey.
func (s *lifecycleSet) get(renderKey string) (*Lifecycle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lc, ok := s.byKey[renderKey]
	return lc, ok
}

func (s *lifecycleSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

// dispose unmounts all content.
func (s *lifecycleSet) dispose() {
	s.mu.Lock()
	all := make([]*Lifecycle, 0, len(s.byKey))
	for _, lc := range s.byKey {
		all = append(all, lc)
	}
	s.byKey = make(map[string]*Lifecycle)
	s.mu.Unlock()

	for _, lc := range all {
		lc.Dispose()
	}
}
