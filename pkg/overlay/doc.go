// Package overlay is an engine for imperatively opened, stacked overlays
// (modals, dialogs, toasts) in a server-driven component tree.
//
// Application code opens an overlay from anywhere with a Commands value.
// The command travels over the system's event bus to the mounted Provider,
// which owns the registry and applies every change through Reduce, a pure
// transition function returning a new State. Slots are mounted regions that
// claim the overlays opened inside them; everything else renders at the
// provider. A HostAdapter decides where rendered overlays are physically
// placed.
//
// # Lifecycle
//
// An overlay moves through added → opened → closed → removed:
//
//   - Open emits an ADD. The item is registered closed and unmounted.
//   - When its content first mounts, a task scheduled for the next frame
//     dispatches OPEN, flipping IsOpen and IsMounted so enter animations
//     can run from the closed state.
//   - Close marks it closed but keeps it rendered for the exit animation.
//   - Unmount removes it from the registry.
//
// # Usage
//
//	sys := overlay.NewSystem("app", overlay.WithAdapter(portal.Adapter(portal.NewTeleporter("overlay-host"))))
//	root := scope.NewOwner(nil)
//	provider := sys.Mount(root)
//	defer provider.Unmount()
//
//	cmds := sys.Commands()
//	id, err := cmds.Open(func(p overlay.ControllerProps) *vdom.VNode {
//	    return vdom.Div(vdom.Role("dialog"), vdom.Text("Saved"))
//	})
//
//	confirm, err := overlay.OpenAsync(cmds, func(p overlay.AsyncProps[bool]) *vdom.VNode {
//	    return ConfirmDialog(p.IsOpen, func() { p.Close(true) }, func() { p.Close(false) })
//	})
//	ok, err := confirm.Wait(ctx)
package overlay
