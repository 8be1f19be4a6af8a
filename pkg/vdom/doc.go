// Package vdom is the renderable node model overlays and hosts produce.
//
// Overlay controllers return a *VNode; host adapters wrap those nodes (for
// example, addressing them to a portal host) and the provider stitches the
// result into its own tree. Nodes carry a reconciliation Key: the overlay
// engine sets it to the item's render key so a changed key means "discard
// and recreate".
//
//	node := vdom.Div(
//	    vdom.Class("dialog"),
//	    vdom.Role("dialog"),
//	    vdom.H2(vdom.Text("Delete project?")),
//	    vdom.Button(vdom.Data("action", "confirm"), vdom.Text("Delete")),
//	)
package vdom
