package portal

import (
	"strconv"
	"sync"

	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// Teleporter is a host store shared by one PortalHost and its Portals.
type Teleporter struct {
	name string

	mu        sync.RWMutex
	host      string
	seq       uint64
	listeners map[uint64]func(hostID string)
	mounted   map[*scope.Owner]string
}

// NewTeleporter creates a teleporter. name prefixes the ids of its hosts.
func NewTeleporter(name string) *Teleporter {
	return &Teleporter{
		name:      name,
		listeners: make(map[uint64]func(string)),
		mounted:   make(map[*scope.Owner]string),
	}
}

// Name returns the teleporter name.
func (t *Teleporter) Name() string { return t.name }

// Host returns the id of the mounted host element, or "" when none is.
func (t *Teleporter) Host() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.host
}

// SetHost records hostID as the current host and notifies subscribers.
// Setting the current value again does nothing.
func (t *Teleporter) SetHost(hostID string) {
	t.mu.Lock()
	if t.host == hostID {
		t.mu.Unlock()
		return
	}
	t.host = hostID
	listeners := make([]func(string), 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(hostID)
	}
}

// Subscribe calls fn whenever the host changes.
func (t *Teleporter) Subscribe(fn func(hostID string)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	key := t.seq
	t.listeners[key] = fn
	return func() {
		t.mu.Lock()
		delete(t.listeners, key)
		t.mu.Unlock()
	}
}

// PortalHost renders the host container and registers it. With an owner
// the host gets an id unique to that owner and is released when the owner
// is disposed (a disposed owner renders nothing); with a nil owner the host id is the teleporter name and
// stays registered.
func (t *Teleporter) PortalHost(owner *scope.Owner, attrs ...vdom.Attr) *vdom.VNode {
	hostID := t.name
	if owner != nil {
		if owner.IsDisposed() {
			return nil
		}
		t.mu.Lock()
		id, ok := t.mounted[owner]
		if !ok {
			id = t.name + "-" + strconv.FormatUint(owner.ID(), 10)
			t.mounted[owner] = id
		}
		t.mu.Unlock()
		hostID = id

		if !ok {
			owner.OnCleanup(func() {
				t.mu.Lock()
				delete(t.mounted, owner)
				current := t.host == hostID
				t.mu.Unlock()
				if current {
					t.SetHost("")
				}
			})
		}
	}
	t.SetHost(hostID)

	args := make([]any, 0, len(attrs)+2)
	for _, a := range attrs {
		args = append(args, a)
	}
	args = append(args, vdom.ID(hostID), vdom.Data("portal-host", t.name))
	return vdom.Div(args...)
}

// Portal renders node addressed to the current host, or nothing while no
// host is mounted.
func (t *Teleporter) Portal(key string, node *vdom.VNode) *vdom.VNode {
	hostID := t.Host()
	if hostID == "" {
		return nil
	}
	return vdom.Template(vdom.Data("portal", hostID), vdom.Key(key), node)
}
