package inspect

import "github.com/vango-dev/ovan/pkg/overlay"

// ItemView is the JSON form of one overlay.
type ItemView struct {
	ID        string  `json:"id"`
	RenderKey string  `json:"renderKey"`
	IsOpen    bool    `json:"isOpen"`
	IsMounted bool    `json:"isMounted"`
	SlotID    *string `json:"slotId"`
}

// SnapshotView is the JSON form of a registry. Empty ids are encoded as null.
type SnapshotView struct {
	Current *string    `json:"current"`
	Order   []string   `json:"order"`
	Items   []ItemView `json:"items"`
}

// SlotsView lists the registered slots.
type SlotsView struct {
	Active *string  `json:"active"`
	Stack  []string `json:"stack"`
}

// Message is sent on the websocket stream.
type Message struct {
	Type     string        `json:"type"`
	Snapshot *SnapshotView `json:"snapshot,omitempty"`
}

// ErrorView is the body of a failed request.
type ErrorView struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewSnapshotView converts s, keeping stacking order.
func NewSnapshotView(s *overlay.State) SnapshotView {
	v := SnapshotView{
		Order: []string{},
		Items: []ItemView{},
	}
	if s == nil {
		return v
	}
	v.Current = nullable(s.Current)
	v.Order = append(v.Order, s.Order...)
	for _, id := range s.Order {
		it := s.Items[id]
		v.Items = append(v.Items, ItemView{
			ID:        it.ID,
			RenderKey: it.RenderKey,
			IsOpen:    it.IsOpen,
			IsMounted: it.IsMounted,
			SlotID:    nullable(it.SlotID),
		})
	}
	return v
}
