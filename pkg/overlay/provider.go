package overlay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/ovan/internal/errors"
	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// ErrUnmounted matches the error returned by Dispatch after Unmount.
var ErrUnmounted error = errors.New("E102")

// Provider owns the registry of one mounted overlay system. It is the only
// writer: commands from the bus and callbacks from overlay content all go
// through Dispatch.
type Provider struct {
	sys       *System
	owner     *scope.Owner
	children  []any
	logger    *slog.Logger
	scheduler *scope.Scheduler
	adapter   HostAdapter

	// mu serializes Reduce so each action sees the previous result.
	// version counts the stored registries.
	mu      sync.Mutex
	state   atomic.Pointer[State]
	version uint64

	unmounted   atomic.Bool
	unsubscribe func()

	slots      slotStack
	lifecycles *lifecycleSet

	listenersMu sync.Mutex
	listenerSeq uint64
	onCurrent   map[uint64]func(string)
	onSnapshot  map[uint64]func(*State)

	// One goroutine at a time delivers registries to listeners, newest
	// version only. queued waits for the delivering goroutine.
	deliverMu     sync.Mutex
	delivering    bool
	delivered     *State
	queued        *State
	queuedVersion uint64
}

func mountProvider(s *System, parent *scope.Owner, children []any) *Provider {
	p := &Provider{
		sys:        s,
		owner:      scope.NewOwner(parent),
		children:   children,
		logger:     s.config.Logger.With("overlay_system", s.name),
		scheduler:  s.config.Scheduler,
		adapter:    s.config.Adapter,
		onCurrent:  make(map[uint64]func(string)),
		onSnapshot: make(map[uint64]func(*State)),
	}
	p.state.Store(NewState())
	p.delivered = p.state.Load()
	p.lifecycles = newLifecycleSet(p.owner)
	s.overlayCtx.Provide(p.owner, p)

	p.unsubscribe = Subscribe(s.config.Bus, s.Prefix(), EventHandlers{
		Open: func(ev OpenEvent) error {
			return p.Dispatch(context.Background(), Add(Item{
				ID:         ev.OverlayID,
				RenderKey:  ev.RenderKey,
				Controller: ev.Controller,
				SlotID:     ev.SlotID,
			}))
		},
		Close: func(overlayID string) error {
			return p.Dispatch(context.Background(), Close(overlayID))
		},
		Unmount: func(overlayID string) error {
			return p.Dispatch(context.Background(), Remove(overlayID))
		},
		CloseAll: func() error {
			return p.Dispatch(context.Background(), CloseAll())
		},
		UnmountAll: func() error {
			return p.Dispatch(context.Background(), RemoveAll())
		},
	})
	p.owner.OnCleanup(p.Unmount)

	p.logger.Debug("overlay provider mounted", "prefix", s.Prefix())
	return p
}

// System returns the system the provider belongs to.
func (p *Provider) System() *System { return p.sys }

// Owner returns the provider's scope.
func (p *Provider) Owner() *scope.Owner { return p.owner }

// Mounted reports whether Unmount has not been called yet.
func (p *Provider) Mounted() bool { return !p.unmounted.Load() }

// Snapshot returns the current registry. The value must not be modified.
func (p *Provider) Snapshot() *State { return p.state.Load() }

// Current returns the id of the topmost overlay, or "".
func (p *Provider) Current() string { return p.state.Load().Current }

// Dispatch applies action through the middleware chain. Listeners are
// notified after the registry is updated, in the order registries were
// stored; a registry superseded before delivery is skipped. After Unmount
// every dispatch fails with E102.
func (p *Provider) Dispatch(ctx context.Context, action Action) error {
	if p.unmounted.Load() {
		return errors.New("E102").WithDetail(action.String())
	}
	return p.dispatch(ctx, action)
}

func (p *Provider) dispatch(ctx context.Context, action Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dc := &DispatchContext{
		Ctx:       ctx,
		Namespace: p.sys.Prefix(),
		Action:    action,
	}

	var (
		stored  *State
		version uint64
	)
	err := ComposeMiddleware(dc, p.sys.config.Middleware, func() error {
		p.mu.Lock()
		defer p.mu.Unlock()

		prev := p.state.Load()
		next, err := Reduce(prev, action)
		dc.Prev, dc.Next = prev, next
		if err != nil {
			dc.Next = prev
			return err
		}
		if next != prev {
			p.version++
			stored, version = next, p.version
			p.state.Store(next)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if version != 0 {
		p.notify(stored, version)
	}
	return nil
}

// dispatchLogged dispatches on behalf of overlay content, where there is no
// caller to return the error to.
func (p *Provider) dispatchLogged(ctx context.Context, action Action) {
	if err := p.Dispatch(ctx, action); err != nil {
		if errors.HasCode(err, "E102") {
			p.logger.Debug("overlay dispatch after unmount", "action", action.String())
			return
		}
		p.logger.Error("overlay dispatch failed", "action", action.String(), "error", err)
	}
}

// notify hands next to the listeners unless a newer registry already
// reached them. Registries stored while another goroutine is delivering
// are queued for it and only the newest is delivered, so listeners never
// see the registry go back in time. A listener that dispatches returns
// before its own change is delivered.
func (p *Provider) notify(next *State, version uint64) {
	p.deliverMu.Lock()
	if version <= p.queuedVersion {
		p.deliverMu.Unlock()
		return
	}
	p.queued, p.queuedVersion = next, version
	if p.delivering {
		p.deliverMu.Unlock()
		return
	}
	p.delivering = true
	p.deliverMu.Unlock()

	finished := false
	defer func() {
		if !finished {
			// A listener panicked; let the next dispatch deliver.
			p.deliverMu.Lock()
			p.delivering = false
			p.deliverMu.Unlock()
		}
	}()

	for {
		p.deliverMu.Lock()
		s := p.queued
		if s == nil {
			p.delivering = false
			p.deliverMu.Unlock()
			finished = true
			return
		}
		p.queued = nil
		prev := p.delivered
		p.delivered = s
		p.deliverMu.Unlock()

		p.deliver(prev, s)
	}
}

func (p *Provider) deliver(prev, next *State) {
	p.listenersMu.Lock()
	current := make([]func(string), 0, len(p.onCurrent))
	if prev.Current != next.Current {
		for _, fn := range p.onCurrent {
			current = append(current, fn)
		}
	}
	snapshot := make([]func(*State), 0, len(p.onSnapshot))
	for _, fn := range p.onSnapshot {
		snapshot = append(snapshot, fn)
	}
	p.listenersMu.Unlock()

	for _, fn := range current {
		fn(next.Current)
	}
	for _, fn := range snapshot {
		fn(next)
	}
}

// SubscribeCurrent calls fn whenever the current overlay changes. The
// returned function removes the listener.
func (p *Provider) SubscribeCurrent(fn func(current string)) (unsubscribe func()) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listenerSeq++
	key := p.listenerSeq
	p.onCurrent[key] = fn
	return func() {
		p.listenersMu.Lock()
		delete(p.onCurrent, key)
		p.listenersMu.Unlock()
	}
}

// SubscribeSnapshot calls fn with each new registry. Under concurrent
// dispatch only the newest pending registry is delivered, never an older one
// after a newer.
func (p *Provider) SubscribeSnapshot(fn func(s *State)) (unsubscribe func()) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listenerSeq++
	key := p.listenerSeq
	p.onSnapshot[key] = fn
	return func() {
		p.listenersMu.Lock()
		delete(p.onSnapshot, key)
		p.listenersMu.Unlock()
	}
}

// ActiveSlot returns the id of the most recently mounted slot still
// registered, or "".
func (p *Provider) ActiveSlot() string {
	return p.slots.active()
}

// Slots returns the registered slot ids, oldest first.
func (p *Provider) Slots() []string {
	return p.slots.list()
}

// Render renders the children, the host container and every overlay that
// belongs to no slot.
func (p *Provider) Render() *vdom.VNode {
	out := vdom.Fragment()
	out.Children = appendRendered(out.Children, p.children, p.owner, p.sys.cmds)

	if host := p.adapter.RenderHost(""); host != nil {
		out.Children = append(out.Children, host)
	}

	items := p.Snapshot().InSlot("")
	out.Children = append(out.Children, p.lifecycles.reconcile(p, items, p.adapter)...)
	return out
}

// Lifecycle returns the mounted content for renderKey at the provider level.
func (p *Provider) Lifecycle(renderKey string) (*Lifecycle, bool) {
	return p.lifecycles.get(renderKey)
}

// Unmount tears the provider down: every overlay is removed, the bus
// subscription is dropped and pending OPENs are canceled. Unmount is
// idempotent.
func (p *Provider) Unmount() {
	if !p.unmounted.CompareAndSwap(false, true) {
		return
	}
	if err := p.dispatch(context.Background(), RemoveAll()); err != nil {
		p.logger.Error("overlay teardown failed", "error", err)
	}
	p.unsubscribe()
	p.lifecycles.dispose()
	p.owner.Dispose()
	p.logger.Debug("overlay provider unmounted", "prefix", p.sys.Prefix())
}

// appendRendered resolves child arguments of a provider or slot.
func appendRendered(dst []*vdom.VNode, children []any, owner *scope.Owner, cmds Commands) []*vdom.VNode {
	for _, child := range children {
		var node *vdom.VNode
		switch c := child.(type) {
		case func(*scope.Owner) *vdom.VNode:
			node = c(owner)
		case func(Commands) *vdom.VNode:
			node = c(cmds)
		default:
			dst = append(dst, vdom.Fragment(c).Children...)
			continue
		}
		if node != nil {
			dst = append(dst, node)
		}
	}
	return dst
}
