package id

import (
	"regexp"
	"sync"
	"testing"
)

var idPattern = regexp.MustCompile(`^ovan-[a-z0-9]+$`)

func TestNew_Prefix(t *testing.T) {
	got := New()
	if !idPattern.MatchString(got) {
		t.Errorf("New() = %q, want match %s", got, idPattern)
	}
}

func TestNew_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := New()
		if !idPattern.MatchString(v) {
			t.Fatalf("New() = %q, want match %s", v, idPattern)
		}
		seen[v] = struct{}{}
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence("k")
	if got := gen.New(); got != "k1" {
		t.Errorf("first = %q, want k1", got)
	}
	if got := gen.New(); got != "k2" {
		t.Errorf("second = %q, want k2", got)
	}
}

func TestSequence_Concurrent(t *testing.T) {
	gen := Sequence("c")
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := gen.New()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 800 {
		t.Errorf("got %d distinct ids, want 800", len(seen))
	}
}
