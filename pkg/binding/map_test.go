package binding

import (
	"fmt"
	"sync"
	"testing"
)

func TestMap_GetAbsentBeforePut(t *testing.T) {
	var m Map
	if v, ok := m.Get("X1"); ok {
		t.Fatalf("expected X1 to be absent, got %q", v)
	}
	m.Put("X1", "boy")
	if v, ok := m.Get("X1"); !ok || v != "boy" {
		t.Fatalf("unexpected X1: got %q ok=%v", v, ok)
	}
}

func TestMap_NameOfFollowsRebinding(t *testing.T) {
	m := NewMap()
	m.Put("X1", "boy")
	m.Put("X2", "boy")

	if n, ok := m.NameOf("boy"); !ok || n != "X1" {
		t.Fatalf("expected the first name X1, got %q ok=%v", n, ok)
	}

	// Only the first name is indexed; once it is rebound the value is forgotten.
	m.Put("X1", "dog")
	if n, ok := m.NameOf("boy"); ok {
		t.Fatalf("expected boy to have no indexed name, got %q", n)
	}
	if n, ok := m.NameOf("dog"); !ok || n != "X1" {
		t.Fatalf("expected dog -> X1, got %q ok=%v", n, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 names, got %d", m.Len())
	}
}

func TestMap_SnapshotIsACopy(t *testing.T) {
	m := NewMap()
	m.Put("a", "1")
	snap := m.Snapshot()
	snap["a"] = "changed"
	if v, _ := m.Get("a"); v != "1" {
		t.Fatalf("snapshot mutation leaked into the map: %q", v)
	}
}

func TestMap_ConcurrentWriterAndReader(t *testing.T) {
	m := NewMap()
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.Put(fmt.Sprintf("X%d", i), fmt.Sprintf("v%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if v, ok := m.Get(fmt.Sprintf("X%d", i)); ok && v != fmt.Sprintf("v%d", i) {
				t.Errorf("X%d bound to unexpected value %q", i, v)
			}
		}
	}()
	wg.Wait()

	if m.Len() != n {
		t.Fatalf("expected %d bindings, got %d", n, m.Len())
	}
}
