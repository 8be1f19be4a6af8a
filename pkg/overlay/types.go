package overlay

import (
	"github.com/vango-dev/ovan/pkg/scope"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// ControllerProps is what an overlay's render function receives.
type ControllerProps struct {
	// OverlayID is the instance id of this overlay.
	OverlayID string

	// IsOpen reports whether the overlay is in the open visual state.
	IsOpen bool

	// Close triggers the close transition. The overlay stays rendered until
	// Unmount is called.
	Close func()

	// Unmount removes the overlay from the registry immediately.
	Unmount func()

	// Owner is the scope of the overlay content. Its ancestors are the
	// region that renders the overlay, so contexts provided there are visible.
	Owner *scope.Owner
}

// Controller renders an overlay's content.
type Controller func(props ControllerProps) *vdom.VNode

// AsyncProps is what an OpenAsync render function receives.
type AsyncProps[T any] struct {
	OverlayID string
	IsOpen    bool

	// Close settles the pending result with value and closes the overlay.
	Close func(value T)

	// Reject settles the pending result with reason and closes the overlay.
	Reject func(reason error)

	Unmount func()
	Owner   *scope.Owner
}

// AsyncController renders an overlay opened with OpenAsync.
type AsyncController[T any] func(props AsyncProps[T]) *vdom.VNode

// Item is one overlay instance in the registry.
type Item struct {
	// ID is unique among registered overlays and reused across re-opens.
	ID string

	// RenderKey changes whenever the content must be recreated rather than
	// updated. It survives a close/re-open of the same id.
	RenderKey string

	// IsOpen drives the open visual state.
	IsOpen bool

	// IsMounted is set once the content has mounted and fired its OPEN.
	IsMounted bool

	// Controller renders the content.
	Controller Controller

	// SlotID is the region that renders this item; "" means the provider.
	SlotID string
}
