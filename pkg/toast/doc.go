// Package toast shows transient notifications as overlays.
//
// A toast is an ordinary overlay: it is opened through the command API,
// becomes current like any other overlay, closes after its Duration and is
// unmounted once its exit transition had time to run.
//
//	id, err := toast.Success(cmds, "Changes saved!")
//
// Toasts opened through slot-scoped commands render inside that slot:
//
//	toast.Info(slot.Commands(), "Draft restored")
//
// Rendered toasts carry data-event="ovan:toast", data-level and data-state
// so client code can style and animate them.
package toast
