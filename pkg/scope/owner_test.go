package scope

import (
	"reflect"
	"testing"
)

func TestNewOwner_Hierarchy(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)

	if root.Parent() != nil {
		t.Error("root should have no parent")
	}
	if child.Parent() != root {
		t.Error("child parent mismatch")
	}
	if got := root.Children(); len(got) != 1 || got[0] != child {
		t.Errorf("Children() = %v, want [child]", got)
	}
	if root.ID() == child.ID() {
		t.Error("owner ids should differ")
	}
}

func TestDispose_Order(t *testing.T) {
	var order []string
	root := NewOwner(nil)
	a := NewOwner(root)
	b := NewOwner(root)

	root.OnCleanup(func() { order = append(order, "root-1") })
	root.OnCleanup(func() { order = append(order, "root-2") })
	a.OnCleanup(func() { order = append(order, "a") })
	b.OnCleanup(func() { order = append(order, "b") })

	root.Dispose()

	want := []string{"b", "a", "root-2", "root-1"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("cleanup order = %v, want %v", order, want)
	}
	if !root.IsDisposed() || !a.IsDisposed() || !b.IsDisposed() {
		t.Error("all owners should be disposed")
	}

	// Second dispose is a no-op.
	root.Dispose()
	if len(order) != 4 {
		t.Errorf("cleanups ran again: %v", order)
	}
}

func TestDispose_DetachesFromParent(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	child.Dispose()

	if len(root.Children()) != 0 {
		t.Error("disposed child still attached")
	}
}

func TestOnCleanup_AfterDispose(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()

	ran := false
	o.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup on disposed owner should run immediately")
	}
}

func TestValues_Inheritance(t *testing.T) {
	root := NewOwner(nil)
	root.SetValue("k", "root")
	child := NewOwner(root)
	grand := NewOwner(child)

	if got := grand.GetValue("k"); got != "root" {
		t.Errorf("inherited value = %v, want root", got)
	}

	child.SetValue("k", "child")
	if got := grand.GetValue("k"); got != "child" {
		t.Errorf("overridden value = %v, want child", got)
	}
	if got := root.GetValue("k"); got != "root" {
		t.Errorf("root value = %v, want root", got)
	}
	if _, ok := root.LookupValue("missing"); ok {
		t.Error("LookupValue found a missing key")
	}
}
