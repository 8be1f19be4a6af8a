package middleware

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

func dialog(props overlay.ControllerProps) *vdom.VNode {
	return vdom.Div(vdom.Role("dialog"))
}

// mountSystem mounts a provider for a system using mw.
func mountSystem(t *testing.T, name string, mw ...overlay.Middleware) (*overlay.System, *overlay.Provider) {
	t.Helper()
	sys := overlay.NewSystem(name,
		overlay.WithMiddleware(mw...),
		overlay.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	p := sys.Mount(scope.NewOwner(nil))
	t.Cleanup(p.Unmount)
	return sys, p
}

// openAndFlush opens overlayID and lets its content mount and open.
func openAndFlush(t *testing.T, sys *overlay.System, p *overlay.Provider, overlayID string) {
	t.Helper()
	if _, err := sys.Commands().Open(dialog, overlay.WithID(overlayID)); err != nil {
		t.Fatalf("Open(%s) error: %v", overlayID, err)
	}
	p.Render()
	sys.Scheduler().Flush()
}
