package callback

import (
	"sync"
	"testing"
)

func TestRegistry_AddPreservesOrder(t *testing.T) {
	var r Registry[func() string]
	r.Add(func() string { return "a" })
	r.Add(func() string { return "b" })
	r.Add(func() string { return "c" })

	var got string
	for _, f := range r.Callbacks() {
		got += f()
	}
	if got != "abc" {
		t.Fatalf("callbacks ran as %q, want %q", got, "abc")
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := New[func() int]()
	h1 := r.Add(func() int { return 1 })
	r.Add(func() int { return 2 })

	r.Remove(h1)
	r.Remove(h1)
	h1.Cancel()
	r.Remove(Handle{})

	cbs := r.Callbacks()
	if len(cbs) != 1 || cbs[0]() != 2 {
		t.Fatalf("callbacks after remove = %d entries, want only the second", len(cbs))
	}
}

func TestRegistry_ForeignHandleIsIgnored(t *testing.T) {
	a := New[func()]()
	b := New[func()]()
	ha := a.Add(func() {})
	b.Add(func() {})

	b.Remove(ha)
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("Len a=%d b=%d, want 1 and 1", a.Len(), b.Len())
	}
}

func TestRegistry_IDsAreNeverReused(t *testing.T) {
	r := New[func()]()
	old := r.Add(func() {})
	r.Remove(old)

	fresh := r.Add(func() {})
	if fresh.id == old.id {
		t.Fatalf("fresh id %d reused removed id", fresh.id)
	}

	// The stale handle must not cancel the newer registration.
	old.Cancel()
	if r.Len() != 1 {
		t.Fatalf("Len = %d after stale cancel, want 1", r.Len())
	}
}

func TestRegistry_SnapshotIsolatedFromMutation(t *testing.T) {
	r := New[func()]()
	var calls []string
	var self Handle
	self = r.Add(func() {
		calls = append(calls, "self")
		self.Cancel()
		r.Add(func() { calls = append(calls, "late") })
	})
	r.Add(func() { calls = append(calls, "second") })

	for _, f := range r.Callbacks() {
		f()
	}
	if len(calls) != 2 || calls[0] != "self" || calls[1] != "second" {
		t.Fatalf("first pass calls = %v, want [self second]", calls)
	}

	calls = nil
	for _, f := range r.Callbacks() {
		f()
	}
	if len(calls) != 2 || calls[0] != "second" || calls[1] != "late" {
		t.Fatalf("second pass calls = %v, want [second late]", calls)
	}
}

func TestRegistry_ConcurrentAddRemove(t *testing.T) {
	r := New[func()]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := r.Add(func() {})
				_ = r.Callbacks()
				h.Cancel()
			}
		}()
	}
	wg.Wait()
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
	if r.lastID != 1600 {
		t.Fatalf("lastID = %d, want 1600", r.lastID)
	}
}
