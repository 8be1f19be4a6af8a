package overlay

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/ovan/internal/errors"
)

func mustReduce(t *testing.T, s *State, actions ...Action) *State {
	t.Helper()
	for _, a := range actions {
		next, err := Reduce(s, a)
		if err != nil {
			t.Fatalf("Reduce(%s) error: %v", a, err)
		}
		s = next
	}
	return s
}

func item(id string) Item {
	return Item{ID: id, RenderKey: "key-" + id}
}

// opened returns a registry where ids were added and opened in order.
func opened(t *testing.T, ids ...string) *State {
	t.Helper()
	s := NewState()
	for _, id := range ids {
		s = mustReduce(t, s, Add(item(id)), Open(id))
	}
	return s
}

func TestReduce_AddFresh(t *testing.T) {
	s := mustReduce(t, NewState(), Add(item("a")), Add(item("b")))

	if !slices.Equal(s.Order, []string{"a", "b"}) {
		t.Errorf("Order = %v, want [a b]", s.Order)
	}
	if s.Current != "b" {
		t.Errorf("Current = %q, want b", s.Current)
	}
	got := s.Items["b"]
	if got.IsOpen || got.IsMounted {
		t.Errorf("new item = %+v, want closed and unmounted", got)
	}
}

func TestReduce_AddReopensClosedInPlace(t *testing.T) {
	s := opened(t, "a", "b", "c")
	s = mustReduce(t, s, Close("a"))

	before := s.Items["a"]
	s = mustReduce(t, s, Add(Item{ID: "a", RenderKey: "other", SlotID: "s2"}))

	if !slices.Equal(s.Order, []string{"a", "b", "c"}) {
		t.Errorf("Order = %v, want [a b c]", s.Order)
	}
	got := s.Items["a"]
	if !got.IsOpen {
		t.Error("re-opened item should be open")
	}
	if got.SlotID != "s2" {
		t.Errorf("SlotID = %q, want s2", got.SlotID)
	}
	if got.RenderKey != before.RenderKey {
		t.Errorf("RenderKey = %q, want kept %q", got.RenderKey, before.RenderKey)
	}
	if !got.IsMounted {
		t.Error("re-opened item should stay mounted")
	}
	if s.Current != "a" {
		t.Errorf("Current = %q, want a", s.Current)
	}
}

func TestReduce_AddOpenIDFails(t *testing.T) {
	s := mustReduce(t, NewState(), Add(Item{ID: "dup", IsOpen: true}))

	next, err := Reduce(s, Add(Item{ID: "dup"}))
	if err == nil {
		t.Fatal("expected error for duplicate open id")
	}
	if !errors.HasCode(err, "E100") {
		t.Errorf("error code: got %v, want E100", err)
	}
	if !strings.Contains(err.Error(), "dup") {
		t.Errorf("error %q should name the id", err)
	}
	if next != s {
		t.Error("failed ADD should return the input state")
	}
}

func TestReduce_AddEmptyID(t *testing.T) {
	_, err := Reduce(NewState(), Add(Item{}))
	if !errors.HasCode(err, "E104") {
		t.Errorf("got %v, want E104", err)
	}
}

func TestReduce_OpenSetsMounted(t *testing.T) {
	s := mustReduce(t, NewState(), Add(item("a")), Open("a"))
	got := s.Items["a"]
	if !got.IsOpen || !got.IsMounted {
		t.Errorf("after OPEN: %+v", got)
	}

	again, _ := Reduce(s, Open("a"))
	if again != s {
		t.Error("OPEN of an open item should be a no-op")
	}
	missing, _ := Reduce(s, Open("nope"))
	if missing != s {
		t.Error("OPEN of an absent item should be a no-op")
	}
}

func TestReduce_CloseCurrent(t *testing.T) {
	tests := []struct {
		name    string
		open    []string
		actions []Action
		want    string
	}{
		{"topmost falls back to previous", []string{"a", "b", "c"}, []Action{Close("c")}, "b"},
		{"non-topmost keeps current", []string{"a", "b", "c"}, []Action{Close("a")}, "c"},
		{"middle keeps current", []string{"a", "b", "c"}, []Action{Close("b")}, "c"},
		{"skips closed entries", []string{"a", "b", "c"}, []Action{Close("b"), Close("c")}, "a"},
		{"last open clears current", []string{"a"}, []Action{Close("a")}, ""},
		{"remove topmost", []string{"a", "b"}, []Action{Remove("b")}, "a"},
		{"remove background", []string{"a", "b"}, []Action{Remove("a")}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustReduce(t, opened(t, tt.open...), tt.actions...)
			if s.Current != tt.want {
				t.Errorf("Current = %q, want %q", s.Current, tt.want)
			}
		})
	}
}

func TestReduce_Scenario_CloseReturnsToPrevious(t *testing.T) {
	s := mustReduce(t, NewState(),
		Add(item("A")), Open("A"),
		Add(item("B")), Open("B"),
		Close("B"),
	)
	if s.Current != "A" {
		t.Errorf("Current = %q, want A", s.Current)
	}
	if s.Items["B"].IsOpen {
		t.Error("B should be closed")
	}
	if len(s.Order) != 2 {
		t.Error("CLOSE must not remove the item")
	}
}

func TestReduce_Scenario_ReopenIntoNewSlot(t *testing.T) {
	s := mustReduce(t, NewState(),
		Add(item("A")),
		Close("A"),
		Add(Item{ID: "A", SlotID: "s2"}),
	)
	got := s.Items["A"]
	if !got.IsOpen || got.SlotID != "s2" {
		t.Errorf("got %+v, want open in s2", got)
	}
}

func TestReduce_CloseNoOps(t *testing.T) {
	s := mustReduce(t, NewState(), Add(item("a")))

	if next, _ := Reduce(s, Close("a")); next != s {
		t.Error("CLOSE of a closed item should be a no-op")
	}
	if next, _ := Reduce(s, Close("zzz")); next != s {
		t.Error("CLOSE of an absent item should be a no-op")
	}
}

func TestReduce_Remove(t *testing.T) {
	s := opened(t, "a", "b")
	next := mustReduce(t, s, Remove("a"))

	if !slices.Equal(next.Order, []string{"b"}) {
		t.Errorf("Order = %v, want [b]", next.Order)
	}
	if _, ok := next.Items["a"]; ok {
		t.Error("removed item still in Items")
	}

	same, _ := Reduce(next, Remove("a"))
	if same != next {
		t.Error("REMOVE of an absent item should return the input")
	}
}

func TestReduce_EmptyNoOps(t *testing.T) {
	s := NewState()
	for _, a := range []Action{CloseAll(), RemoveAll()} {
		next, err := Reduce(s, a)
		if err != nil {
			t.Fatalf("%s: %v", a, err)
		}
		if next != s {
			t.Errorf("%s on empty registry should return the input", a)
		}
	}
}

func TestReduce_CloseAll(t *testing.T) {
	s := opened(t, "a", "b", "c")
	next := mustReduce(t, s, CloseAll())

	if next.Current != "" {
		t.Errorf("Current = %q, want empty", next.Current)
	}
	if !slices.Equal(next.Order, s.Order) {
		t.Errorf("Order changed: %v", next.Order)
	}
	for _, id := range s.Order {
		got := next.Items[id]
		if got.IsOpen {
			t.Errorf("%s still open", id)
		}
		if got.RenderKey != s.Items[id].RenderKey || !got.IsMounted {
			t.Errorf("%s identity changed: %+v", id, got)
		}
	}
}

func TestReduce_RemoveAll(t *testing.T) {
	next := mustReduce(t, opened(t, "a", "b"), RemoveAll())
	if !next.IsEmpty() {
		t.Errorf("RemoveAll left %+v", next)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := opened(t, "a", "b")
	order := slices.Clone(s.Order)
	items := map[string]Item{"a": s.Items["a"], "b": s.Items["b"]}

	for _, a := range []Action{Close("b"), Remove("a"), CloseAll(), Add(item("c")), RemoveAll()} {
		if _, err := Reduce(s, a); err != nil {
			t.Fatalf("%s: %v", a, err)
		}
	}

	if !slices.Equal(s.Order, order) || s.Current != "b" {
		t.Fatalf("input mutated: %+v", s)
	}
	for id, want := range items {
		if got := s.Items[id]; got.IsOpen != want.IsOpen || got.SlotID != want.SlotID {
			t.Errorf("item %s mutated: %+v", id, got)
		}
	}
}

func TestReduce_RandomSequencesKeepInvariants(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	slots := []string{"", "s1", "s2"}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := NewState()

		for step := 0; step < 500; step++ {
			id := ids[rng.Intn(len(ids))]
			var a Action
			switch rng.Intn(7) {
			case 0, 1:
				a = Add(Item{ID: id, RenderKey: "k" + id, SlotID: slots[rng.Intn(len(slots))]})
			case 2:
				a = Open(id)
			case 3:
				a = Close(id)
			case 4:
				a = Remove(id)
			case 5:
				a = CloseAll()
			default:
				if rng.Intn(10) == 0 {
					a = RemoveAll()
				} else {
					a = Open(id)
				}
			}

			before := s.Items[id]
			next, err := Reduce(s, a)
			if err != nil {
				if a.Type != ActionAdd || !before.IsOpen {
					t.Fatalf("seed %d step %d: unexpected error for %s: %v", seed, step, a, err)
				}
				if next != s {
					t.Fatalf("seed %d step %d: failed ADD changed state", seed, step)
				}
				continue
			}
			if err := next.Validate(); err != nil {
				t.Fatalf("seed %d step %d after %s: %v", seed, step, a, err)
			}
			if len(next.Order) != len(next.Items) {
				t.Fatalf("seed %d step %d: %d ids in order, %d items", seed, step, len(next.Order), len(next.Items))
			}
			if a.Type == ActionAdd && next.Current != id {
				t.Fatalf("seed %d step %d: ADD(%s) left current %q", seed, step, id, next.Current)
			}
			s = next
		}
	}
}

func TestDetermineCurrent(t *testing.T) {
	items := map[string]Item{
		"a": {ID: "a", IsOpen: true},
		"b": {ID: "b", IsOpen: false},
		"c": {ID: "c", IsOpen: true},
		"d": {ID: "d", IsOpen: true},
	}
	order := []string{"a", "b", "c", "d"}

	tests := []struct {
		target string
		want   string
	}{
		{"d", "c"},
		{"c", "d"},
		{"a", "d"},
		{"b", "d"},
		{"missing", "d"},
	}
	for _, tt := range tests {
		if got := DetermineCurrent(order, items, tt.target); got != tt.want {
			t.Errorf("DetermineCurrent(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}

	single := map[string]Item{"a": {ID: "a", IsOpen: true}}
	if got := DetermineCurrent([]string{"a"}, single, "a"); got != "" {
		t.Errorf("only open overlay: got %q, want empty", got)
	}
	if got := DetermineCurrent(nil, nil, "a"); got != "" {
		t.Errorf("empty registry: got %q, want empty", got)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Add(Item{ID: "x"}), "ADD(x)"},
		{Open("x"), "OPEN(x)"},
		{Close("x"), "CLOSE(x)"},
		{Remove("x"), "REMOVE(x)"},
		{CloseAll(), "CLOSE_ALL"},
		{RemoveAll(), "REMOVE_ALL"},
		{Action{Type: 42}, "ActionType(42)"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
