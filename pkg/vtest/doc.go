// Package vtest provides helpers for testing overlay flows.
//
// A Harness mounts a system with deterministic ids and lets a test step
// through frames: Frame renders the provider and runs the OPEN actions the
// render scheduled, exactly as a host would after painting.
//
//	func TestConfirm(t *testing.T) {
//	    h := vtest.New(t)
//	    id, _ := h.Commands().Open(confirm)
//
//	    h.Frame()
//	    h.ExpectOpen(id)
//	    h.ExpectCurrent(id)
//
//	    _ = h.Commands().Close(id)
//	    h.ExpectClosed(id)
//	    vtest.ExpectContains(t, h.Provider.Render(), `data-state="closed"`)
//	}
package vtest
