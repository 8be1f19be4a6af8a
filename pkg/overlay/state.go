package overlay

import (
	"fmt"
	"slices"
)

// State is the overlay registry. Values are never mutated once published;
// every transition builds a new State.
type State struct {
	// Current is the id of the topmost open overlay, or "". After an ADD it
	// names the new overlay even before its OPEN is dispatched.
	Current string

	// Order lists ids in stacking order, oldest first.
	Order []string

	// Items maps id to its overlay.
	Items map[string]Item
}

// NewState returns an empty registry.
func NewState() *State {
	return &State{
		Order: []string{},
		Items: map[string]Item{},
	}
}

// Clone returns a copy whose Order and Items can be modified independently.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	items := make(map[string]Item, len(s.Items))
	for k, v := range s.Items {
		items[k] = v
	}
	return &State{
		Current: s.Current,
		Order:   append(make([]string, 0, len(s.Order)+1), s.Order...),
		Items:   items,
	}
}

// Len returns the number of registered overlays.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Order)
}

// IsEmpty reports whether no overlay is registered and none is current.
func (s *State) IsEmpty() bool {
	return s == nil || (len(s.Items) == 0 && len(s.Order) == 0 && s.Current == "")
}

// Item returns the overlay registered under id.
func (s *State) Item(id string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	it, ok := s.Items[id]
	return it, ok
}

// OpenIDs returns the ids of open overlays in stacking order.
func (s *State) OpenIDs() []string {
	if s == nil {
		return nil
	}
	return openSubsequence(s.Order, s.Items)
}

// InSlot returns the overlays rendered by slotID ("" for the provider), in
// stacking order.
func (s *State) InSlot(slotID string) []Item {
	if s == nil {
		return nil
	}
	var out []Item
	for _, id := range s.Order {
		if it, ok := s.Items[id]; ok && it.SlotID == slotID {
			out = append(out, it)
		}
	}
	return out
}

// Validate checks the registry invariants: Order has no duplicates, Order
// and Items hold the same ids, and Current is "" or a registered id. A
// freshly added overlay is current before its deferred OPEN lands, so
// Current is not required to be open.
func (s *State) Validate() error {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(s.Order))
	for _, id := range s.Order {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("overlay: duplicate id %q in order", id)
		}
		seen[id] = struct{}{}
		if _, ok := s.Items[id]; !ok {
			return fmt.Errorf("overlay: id %q in order has no item", id)
		}
	}
	for id, it := range s.Items {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("overlay: item %q missing from order", id)
		}
		if it.ID != id {
			return fmt.Errorf("overlay: item keyed %q has id %q", id, it.ID)
		}
	}
	if s.Current != "" {
		if _, ok := s.Items[s.Current]; !ok {
			return fmt.Errorf("overlay: current %q is not registered", s.Current)
		}
	}
	return nil
}

func openSubsequence(order []string, items map[string]Item) []string {
	open := make([]string, 0, len(order))
	for _, id := range order {
		if it, ok := items[id]; ok && it.IsOpen {
			open = append(open, id)
		}
	}
	return open
}

// DetermineCurrent picks the new current overlay after target stops being
// open. order and items describe the registry before the change.
//
// If target was the topmost open overlay, the open overlay just below it
// becomes current ("" if none). Otherwise the topmost open overlay stays
// current.
func DetermineCurrent(order []string, items map[string]Item, target string) string {
	open := openSubsequence(order, items)
	idx := slices.Index(open, target)

	if idx == len(open)-1 {
		if idx-1 >= 0 {
			return open[idx-1]
		}
		return ""
	}
	return open[len(open)-1]
}
