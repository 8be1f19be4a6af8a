package vtest

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/ovan/pkg/id"
	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/render"
	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// Harness is a mounted overlay system driven frame by frame from a test.
type Harness struct {
	t        testing.TB
	System   *overlay.System
	Provider *overlay.Provider
	Root     *scope.Owner
}

// New mounts a system named "test" with deterministic ids and a silent
// logger. Extra options are applied after those defaults. The provider is
// unmounted when the test ends.
//
// Example:
//
//	h := vtest.New(t)
//	id, _ := h.Commands().Open(myDialog)
//	h.Frame()
//	h.ExpectOpen(id)
func New(t testing.TB, opts ...overlay.Option) *Harness {
	t.Helper()
	base := []overlay.Option{
		overlay.WithIDGenerator(id.Sequence("t")),
		overlay.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	sys := overlay.NewSystem("test", append(base, opts...)...)
	root := scope.NewOwner(nil)
	h := &Harness{
		t:        t,
		System:   sys,
		Provider: sys.Mount(root),
		Root:     root,
	}
	t.Cleanup(root.Dispose)
	return h
}

// Commands returns the system's root commands.
func (h *Harness) Commands() overlay.Commands {
	return h.System.Commands()
}

// Frame renders the provider and runs the deferred tasks it scheduled,
// like one paint of a real host.
func (h *Harness) Frame() *vdom.VNode {
	node := h.Provider.Render()
	h.System.Scheduler().Flush()
	return node
}

// HTML renders the provider to HTML without running a frame.
func (h *Harness) HTML() string {
	return RenderToString(h.Provider.Render())
}

// ExpectOpen asserts that id is registered and open.
func (h *Harness) ExpectOpen(id string) {
	h.t.Helper()
	it, ok := h.Provider.Snapshot().Item(id)
	if !ok || !it.IsOpen {
		h.t.Errorf("expected overlay %q to be open, got %+v (registered=%v)", id, it, ok)
	}
}

// ExpectClosed asserts that id is registered and closed.
func (h *Harness) ExpectClosed(id string) {
	h.t.Helper()
	it, ok := h.Provider.Snapshot().Item(id)
	if !ok || it.IsOpen {
		h.t.Errorf("expected overlay %q to be closed, got %+v (registered=%v)", id, it, ok)
	}
}

// ExpectRemoved asserts that id is not registered.
func (h *Harness) ExpectRemoved(id string) {
	h.t.Helper()
	if _, ok := h.Provider.Snapshot().Item(id); ok {
		h.t.Errorf("expected overlay %q to be removed, order = %v", id, h.Provider.Snapshot().Order)
	}
}

// ExpectCurrent asserts the topmost open overlay. Pass "" for none.
func (h *Harness) ExpectCurrent(id string) {
	h.t.Helper()
	if got := h.Provider.Current(); got != id {
		h.t.Errorf("current = %q, want %q", got, id)
	}
}

// ExpectOrder asserts the registry order.
func (h *Harness) ExpectOrder(ids ...string) {
	h.t.Helper()
	if got := h.Provider.Snapshot().Order; !slices.Equal(got, ids) {
		h.t.Errorf("order = %v, want %v", got, ids)
	}
}

// RenderToString renders a VNode and returns the HTML string.
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
//	vtest.ExpectContains(t, h.Provider.Render(), `role="dialog"`)
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
