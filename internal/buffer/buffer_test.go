package buffer

import (
	"reflect"
	"testing"
)

func fill(b *Bounded[int], from, to int) (evictions int) {
	for i := from; i <= to; i++ {
		if b.Append(i) {
			evictions++
		}
	}
	return evictions
}

func TestAppend_EvictsOldest(t *testing.T) {
	b := New[int](5)
	evictions := fill(b, 1, 6)

	if evictions != 1 {
		t.Fatalf("evictions = %d, want 1", evictions)
	}
	want := []int{2, 3, 4, 5, 6}
	if got := b.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
}

func TestAppend_BoundHoldsAtEveryStep(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		n     int
	}{
		{"limit one", 1, 10},
		{"limit below grow step", 3, 50},
		{"limit above grow step", 40, 500},
		{"limit equals appends", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New[int](tt.limit)
			for i := 1; i <= tt.n; i++ {
				evicted := b.Append(i)
				if b.Len() > tt.limit {
					t.Fatalf("Len = %d after %d appends, exceeds limit %d", b.Len(), i, tt.limit)
				}
				if wantEvicted := i > tt.limit; evicted != wantEvicted {
					t.Fatalf("append %d evicted = %v, want %v", i, evicted, wantEvicted)
				}
			}
			start := max(tt.n-tt.limit+1, 1)
			for i := 0; i < b.Len(); i++ {
				if got := b.At(i); got != start+i {
					t.Fatalf("At(%d) = %d, want %d", i, got, start+i)
				}
			}
		})
	}
}

func TestAppend_LimitOneKeepsLatest(t *testing.T) {
	b := New[string](1)
	if b.Append("a") {
		t.Fatal("first append evicted")
	}
	if !b.Append("b") {
		t.Fatal("second append did not evict")
	}
	if got := b.Snapshot(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("Snapshot() = %v, want [b]", got)
	}
}

func TestAppend_UnboundedNeverEvicts(t *testing.T) {
	for _, limit := range []int{0, -1} {
		b := New[int](limit)
		if evictions := fill(b, 1, 1000); evictions != 0 {
			t.Fatalf("limit %d: evictions = %d, want 0", limit, evictions)
		}
		if b.Len() != 1000 {
			t.Fatalf("limit %d: Len = %d, want 1000", limit, b.Len())
		}
		if b.At(0) != 1 || b.At(999) != 1000 {
			t.Fatalf("limit %d: endpoints = %d..%d, want 1..1000", limit, b.At(0), b.At(999))
		}
	}
}

func TestClear_KeepsCapacity(t *testing.T) {
	b := New[int](8)
	fill(b, 1, 20)
	capBefore := len(b.buf)

	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", b.Len())
	}
	if len(b.buf) != capBefore {
		t.Fatalf("storage = %d after Clear, want %d", len(b.buf), capBefore)
	}
	if got := b.Snapshot(); len(got) != 0 {
		t.Fatalf("Snapshot() = %v after Clear, want empty", got)
	}

	fill(b, 100, 102)
	if got := b.Snapshot(); !reflect.DeepEqual(got, []int{100, 101, 102}) {
		t.Fatalf("Snapshot() = %v after refill, want [100 101 102]", got)
	}
}

func TestAll_YieldsArrivalOrder(t *testing.T) {
	b := New[int](4)
	fill(b, 1, 7)

	var got []int
	for i, v := range b.All() {
		if b.At(i) != v {
			t.Fatalf("All() index %d = %d, At = %d", i, v, b.At(i))
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, []int{4, 5, 6, 7}) {
		t.Fatalf("All() = %v, want [4 5 6 7]", got)
	}
}

func TestAt_PanicsOutOfRange(t *testing.T) {
	b := New[int](2)
	b.Append(1)
	defer func() {
		if recover() == nil {
			t.Fatal("At(1) did not panic")
		}
	}()
	b.At(1)
}
