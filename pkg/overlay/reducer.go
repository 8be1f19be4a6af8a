package overlay

import (
	"fmt"

	"github.com/vango-dev/ovan/internal/errors"
)

// Reduce applies action to state and returns the resulting registry. When
// the action changes nothing, the input pointer is returned unchanged.
//
// Reduce is pure: it never mutates s and has no side effects. The only
// failure is an ADD for an id that is already open (E100).
func Reduce(s *State, action Action) (*State, error) {
	if s == nil {
		s = NewState()
	}

	switch action.Type {
	case ActionAdd:
		return reduceAdd(s, action.Item)
	case ActionOpen:
		return reduceOpen(s, action.OverlayID), nil
	case ActionClose:
		return reduceClose(s, action.OverlayID), nil
	case ActionRemove:
		return reduceRemove(s, action.OverlayID), nil
	case ActionCloseAll:
		return reduceCloseAll(s), nil
	case ActionRemoveAll:
		if s.IsEmpty() {
			return s, nil
		}
		return NewState(), nil
	default:
		return s, nil
	}
}

func reduceAdd(s *State, item Item) (*State, error) {
	if item.ID == "" {
		return s, errors.New("E104")
	}

	existing, ok := s.Items[item.ID]
	if ok && existing.IsOpen {
		return s, errors.New("E100").WithDetail(fmt.Sprintf(
			"you can't open multiple overlays with the same id (%s); set a different id", item.ID))
	}

	next := s.Clone()
	next.Current = item.ID

	if ok {
		// Re-open in place. The slot is reassigned because the region that
		// opened it may have remounted under a new id since.
		existing.IsOpen = true
		existing.SlotID = item.SlotID
		if item.Controller != nil {
			existing.Controller = item.Controller
		}
		next.Items[item.ID] = existing
		return next, nil
	}

	next.Order = append(next.Order, item.ID)
	next.Items[item.ID] = item
	return next, nil
}

func reduceOpen(s *State, id string) *State {
	it, ok := s.Items[id]
	if !ok || it.IsOpen {
		return s
	}

	next := s.Clone()
	it.IsOpen = true
	it.IsMounted = true
	next.Items[id] = it
	return next
}

func reduceClose(s *State, id string) *State {
	it, ok := s.Items[id]
	if !ok || !it.IsOpen {
		return s
	}

	next := s.Clone()
	next.Current = DetermineCurrent(s.Order, s.Items, id)
	it.IsOpen = false
	next.Items[id] = it
	return next
}

func reduceRemove(s *State, id string) *State {
	if _, ok := s.Items[id]; !ok {
		return s
	}

	next := &State{
		Current: DetermineCurrent(s.Order, s.Items, id),
		Order:   make([]string, 0, len(s.Order)),
		Items:   make(map[string]Item, len(s.Items)),
	}
	for _, oid := range s.Order {
		if oid != id {
			next.Order = append(next.Order, oid)
		}
	}
	for k, v := range s.Items {
		if k != id {
			next.Items[k] = v
		}
	}
	return next
}

func reduceCloseAll(s *State) *State {
	if len(s.Items) == 0 {
		return s
	}

	next := s.Clone()
	for k, v := range next.Items {
		v.IsOpen = false
		next.Items[k] = v
	}
	next.Current = ""
	return next
}
