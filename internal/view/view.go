// Package view provides a filtered, ordered window over a recorder's buffer.
//
// A View holds no copy of the data. Every Count, ItemAt and Items call reads
// the source under its read lock and re-applies the severity filter, so the
// view always reflects the latest buffer state.
package view

import (
	"fmt"
	"sync"

	"github.com/five82/logbuf/internal/buffer"
	"github.com/five82/logbuf/internal/entry"
)

// Source exposes buffered items for reading. *recorder.Recorder satisfies it.
type Source[T any] interface {
	Read(func(buffer.Reader[T]))
}

// reverseHinter is implemented by sources that carry a display-order hint.
type reverseHinter interface {
	ReverseChronological() bool
}

// View filters a Source by minimum severity and presents it in an Order.
// It is safe for concurrent use.
type View[T any] struct {
	src      Source[T]
	severity func(T) entry.Severity

	mu    sync.RWMutex
	order Order
	min   entry.Severity
}

// New returns a view over src. severity extracts the severity of an item.
// The initial order is Descending when src reports ReverseChronological,
// Ascending otherwise; the initial minimum severity is Verbose.
func New[T any](src Source[T], severity func(T) entry.Severity) *View[T] {
	v := &View[T]{src: src, severity: severity, min: entry.Verbose}
	if h, ok := src.(reverseHinter); ok && h.ReverseChronological() {
		v.order = Descending
	}
	return v
}

// Order returns the current order.
func (v *View[T]) Order() Order {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.order
}

// SetOrder changes the order used by subsequent reads.
func (v *View[T]) SetOrder(o Order) {
	v.mu.Lock()
	v.order = o
	v.mu.Unlock()
}

// MinimumSeverity returns the current severity threshold.
func (v *View[T]) MinimumSeverity() entry.Severity {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.min
}

// SetMinimumSeverity changes the threshold used by subsequent reads.
func (v *View[T]) SetMinimumSeverity(s entry.Severity) {
	v.mu.Lock()
	v.min = s
	v.mu.Unlock()
}

func (v *View[T]) settings() (Order, entry.Severity) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.order, v.min
}

// Count returns the number of buffered items at or above the minimum
// severity.
func (v *View[T]) Count() int {
	_, min := v.settings()
	n := 0
	v.src.Read(func(r buffer.Reader[T]) {
		if min <= entry.Verbose {
			n = r.Len()
			return
		}
		for i := range r.Len() {
			if v.severity(r.At(i)) >= min {
				n++
			}
		}
	})
	return n
}

// ItemAt returns the item at position i of the filtered sequence in view
// order. It panics unless 0 <= i < Count().
func (v *View[T]) ItemAt(i int) T {
	order, min := v.settings()
	var (
		item  T
		found bool
		count int
	)
	v.src.Read(func(r buffer.Reader[T]) {
		if i < 0 {
			return
		}
		n := r.Len()
		for k := range n {
			idx := k
			if order == Descending {
				idx = n - 1 - k
			}
			it := r.At(idx)
			if v.severity(it) < min {
				continue
			}
			if count == i {
				item, found = it, true
				return
			}
			count++
		}
	})
	if !found {
		panic(fmt.Sprintf("view: index %d out of range [0,%d)", i, count))
	}
	return item
}

// Items returns every visible item in view order, taken from one read of
// the source.
func (v *View[T]) Items() []T {
	order, min := v.settings()
	var out []T
	v.src.Read(func(r buffer.Reader[T]) {
		n := r.Len()
		out = make([]T, 0, n)
		for k := range n {
			idx := k
			if order == Descending {
				idx = n - 1 - k
			}
			if it := r.At(idx); v.severity(it) >= min {
				out = append(out, it)
			}
		}
	})
	return out
}
