package overlay

import "fmt"

// ActionType identifies a registry transition.
type ActionType uint8

const (
	ActionAdd ActionType = iota + 1
	ActionOpen
	ActionClose
	ActionRemove
	ActionCloseAll
	ActionRemoveAll
)

// String returns the transition name.
func (t ActionType) String() string {
	switch t {
	case ActionAdd:
		return "ADD"
	case ActionOpen:
		return "OPEN"
	case ActionClose:
		return "CLOSE"
	case ActionRemove:
		return "REMOVE"
	case ActionCloseAll:
		return "CLOSE_ALL"
	case ActionRemoveAll:
		return "REMOVE_ALL"
	default:
		return fmt.Sprintf("ActionType(%d)", uint8(t))
	}
}

// Action is the input to Reduce.
type Action struct {
	Type ActionType

	// Item is the overlay to register (ADD only).
	Item Item

	// OverlayID targets OPEN, CLOSE and REMOVE.
	OverlayID string
}

// Target returns the overlay id the action refers to, if any.
func (a Action) Target() string {
	if a.Type == ActionAdd {
		return a.Item.ID
	}
	return a.OverlayID
}

func (a Action) String() string {
	if id := a.Target(); id != "" {
		return a.Type.String() + "(" + id + ")"
	}
	return a.Type.String()
}

// Add registers item, or re-opens it when its id is registered and closed.
func Add(item Item) Action { return Action{Type: ActionAdd, Item: item} }

// Open marks an overlay open and mounted.
func Open(overlayID string) Action { return Action{Type: ActionOpen, OverlayID: overlayID} }

// Close marks an overlay closed without removing it.
func Close(overlayID string) Action { return Action{Type: ActionClose, OverlayID: overlayID} }

// Remove deletes an overlay from the registry.
func Remove(overlayID string) Action { return Action{Type: ActionRemove, OverlayID: overlayID} }

// CloseAll closes every overlay.
func CloseAll() Action { return Action{Type: ActionCloseAll} }

// RemoveAll empties the registry.
func RemoveAll() Action { return Action{Type: ActionRemoveAll} }
