package main

import (
	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/toast"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// templates are the overlays the inspector can open by name.
var templates = map[string]overlay.Controller{
	"dialog": dialog,
	"drawer": drawer,
	"toast": toast.Controller(toast.Toast{
		Level:   toast.TypeInfo,
		Title:   "ovan",
		Message: "Opened from the inspector",
	}),
}

func state(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func dialog(p overlay.ControllerProps) *vdom.VNode {
	return vdom.Div(
		vdom.Role("dialog"),
		vdom.AriaModal(true),
		vdom.Data("state", state(p.IsOpen)),
		vdom.H2(vdom.Text("Dialog "+p.OverlayID)),
		vdom.Button(vdom.Data("action", "close"), vdom.Text("Close")),
	)
}

func drawer(p overlay.ControllerProps) *vdom.VNode {
	return vdom.Section(
		vdom.Class("drawer"),
		vdom.Data("state", state(p.IsOpen)),
		vdom.P(vdom.Text("Drawer "+p.OverlayID)),
	)
}
