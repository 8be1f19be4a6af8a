// Package portal renders overlays away from where they are declared.
//
// A Teleporter pairs a PortalHost, the container element overlays should
// appear in, with any number of Portals. The host is tracked in a small
// store: when the host unmounts and another mounts elsewhere (for example
// after navigating between layouts), portals rendered afterwards address
// the new host, and subscribers are told so they can re-render.
//
// Adapter and SlotAdapter turn teleporters into overlay.HostAdapter values:
//
//	tp := portal.NewTeleporter("overlay-host")
//	sys := overlay.NewSystem("app", overlay.WithAdapter(portal.Adapter(tp)))
//
// On the client, a portal is a <template data-portal="host-id"> whose
// content is moved into the element with that id.
package portal
