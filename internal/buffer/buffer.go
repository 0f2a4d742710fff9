// Package buffer implements the capacity-limited ring that backs a recorder.
package buffer

import (
	"fmt"
	"iter"
)

const minGrow = 16

// Reader is the read-only surface of a Bounded buffer handed to views.
type Reader[T any] interface {
	Len() int
	At(i int) T
}

// Bounded is an ordered sequence of T, oldest first, that holds at most limit
// items when limit is positive. It is not safe for concurrent use; the owning
// recorder serializes access.
type Bounded[T any] struct {
	buf   []T
	head  int // storage index of the oldest item
	count int
	limit int
}

// New returns an empty buffer. A limit of zero or less disables eviction, in
// which case memory grows without bound until Clear is called.
func New[T any](limit int) *Bounded[T] {
	return &Bounded[T]{limit: limit}
}

// Limit returns the configured capacity; zero or less means unbounded.
func (b *Bounded[T]) Limit() int { return b.limit }

// Len returns the number of buffered items.
func (b *Bounded[T]) Len() int { return b.count }

// Append adds item at the logical end. When the buffer is full the oldest item
// is dropped first and evicted is true.
func (b *Bounded[T]) Append(item T) (evicted bool) {
	if b.limit > 0 && b.count+1 > b.limit {
		// full ring: overwrite the oldest slot and advance head
		b.buf[b.head] = item
		b.head = (b.head + 1) % len(b.buf)
		return true
	}
	if b.count == len(b.buf) {
		b.grow()
	}
	b.buf[(b.head+b.count)%len(b.buf)] = item
	b.count++
	return false
}

// grow reallocates the ring in arrival order, never past limit.
func (b *Bounded[T]) grow() {
	size := max(len(b.buf)*2, minGrow)
	if b.limit > 0 {
		size = min(size, b.limit)
	}
	next := make([]T, size)
	b.copyTo(next)
	b.buf = next
	b.head = 0
}

// At returns the item at storage index i, where 0 is the oldest.
func (b *Bounded[T]) At(i int) T {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("buffer: index %d out of range [0,%d)", i, b.count))
	}
	return b.buf[(b.head+i)%len(b.buf)]
}

// All iterates over the buffered items oldest first.
func (b *Bounded[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.count; i++ {
			if !yield(i, b.buf[(b.head+i)%len(b.buf)]) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the contents in arrival order.
func (b *Bounded[T]) Snapshot() []T {
	out := make([]T, b.count)
	b.copyTo(out)
	return out
}

func (b *Bounded[T]) copyTo(dst []T) {
	if b.count == 0 {
		return
	}
	end := b.head + b.count
	if end <= len(b.buf) {
		copy(dst, b.buf[b.head:end])
		return
	}
	n := copy(dst, b.buf[b.head:])
	copy(dst[n:], b.buf[:end-len(b.buf)])
}

// Clear removes every item while keeping the allocated storage.
func (b *Bounded[T]) Clear() {
	clear(b.buf)
	b.head = 0
	b.count = 0
}
