package recorder

import (
	"sync"

	"github.com/five82/logbuf/internal/buffer"
	"github.com/five82/logbuf/internal/callback"
	"github.com/five82/logbuf/internal/entry"
)

// RecordFunc is notified after an item has been appended. evicted reports
// whether the oldest item was dropped to make room.
type RecordFunc[T any] func(r *Recorder[T], item T, evicted bool)

// ClearFunc is notified after the buffer has been emptied.
type ClearFunc[T any] func(r *Recorder[T])

// Recorder buffers formatted log entries in a bounded ring and notifies
// registered callbacks. Record and Clear may be called from any goroutine.
//
// Callbacks run inside the recorder's serialization boundary. They may read
// the recorder (Snapshot, Len, Read) and add or remove callbacks, but calling
// Record or Clear from a callback deadlocks.
type Recorder[T any] struct {
	opts      options
	transform func(entry.Entry, string) T

	// mu is the serialization boundary: one Record or Clear, including its
	// callback dispatch, at a time.
	mu sync.Mutex

	bufMu sync.RWMutex
	buf   *buffer.Bounded[T]

	recorded callback.Registry[RecordFunc[T]]
	cleared  callback.Registry[ClearFunc[T]]

	// deferred dispatch
	queue     chan op
	done      chan struct{}
	sendMu    sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type opKind int

const (
	opRecord opKind = iota
	opClear
	opFlush
)

type op struct {
	kind    opKind
	entry   entry.Entry
	message string
	done    chan struct{}
}

// New creates a recorder that stores transform(entry, message) for every
// entry a formatter accepts. In Deferred mode a drain goroutine starts
// immediately; call Close to stop it.
func New[T any](transform func(entry.Entry, string) T, opts ...Option) *Recorder[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.queueSize <= 0 {
		o.queueSize = defaultQueueSize
	}

	r := &Recorder[T]{
		opts:      o,
		transform: transform,
		buf:       buffer.New[T](o.bufferLimit),
	}
	if o.dispatch == Deferred {
		r.queue = make(chan op, o.queueSize)
		r.done = make(chan struct{})
		go r.drain()
	}
	return r
}

// Record formats e and appends the result. appended is false when every
// formatter suppressed the entry, or when a deferred recorder is closed.
// In Deferred mode the append happens later, so evicted is always false.
func (r *Recorder[T]) Record(e entry.Entry) (appended, evicted bool) {
	msg, ok := r.opts.format(e)
	if !ok {
		return false, false
	}
	if r.queue == nil {
		return true, r.apply(e, msg)
	}

	r.sendMu.RLock()
	defer r.sendMu.RUnlock()
	if r.closed {
		return false, false
	}
	r.queue <- op{kind: opRecord, entry: e, message: msg}
	return true, false
}

// Clear empties the buffer and then runs the clear callbacks. It returns once
// both are done. In Deferred mode the clear is ordered after records already
// queued.
func (r *Recorder[T]) Clear() {
	if r.queue != nil && r.enqueueAndWait(opClear) {
		return
	}
	r.clear()
}

// Flush blocks until every deferred record queued before the call has been
// applied. It does nothing in Synchronous mode.
func (r *Recorder[T]) Flush() {
	if r.queue != nil {
		r.enqueueAndWait(opFlush)
	}
}

// Close drains pending deferred records and stops the drain goroutine.
// Later Record calls are dropped. Close does nothing in Synchronous mode.
func (r *Recorder[T]) Close() error {
	if r.queue == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.sendMu.Lock()
		r.closed = true
		close(r.queue)
		r.sendMu.Unlock()
		<-r.done
	})
	return nil
}

// OnRecord registers f for every appended item.
func (r *Recorder[T]) OnRecord(f RecordFunc[T]) callback.Handle {
	return r.recorded.Add(f)
}

// OnClear registers f for every Clear.
func (r *Recorder[T]) OnClear(f ClearFunc[T]) callback.Handle {
	return r.cleared.Add(f)
}

// RemoveCallback cancels a registration made with OnRecord or OnClear.
// Unknown or already removed handles are ignored.
func (r *Recorder[T]) RemoveCallback(h callback.Handle) {
	r.recorded.Remove(h)
	r.cleared.Remove(h)
}

// Read calls fn with the live buffer under the read lock. fn must not retain
// the reader or call back into Record or Clear.
func (r *Recorder[T]) Read(fn func(buffer.Reader[T])) {
	r.bufMu.RLock()
	defer r.bufMu.RUnlock()
	fn(r.buf)
}

// Snapshot returns a copy of the buffered items, oldest first.
func (r *Recorder[T]) Snapshot() []T {
	r.bufMu.RLock()
	defer r.bufMu.RUnlock()
	return r.buf.Snapshot()
}

// Len returns the number of buffered items.
func (r *Recorder[T]) Len() int {
	r.bufMu.RLock()
	defer r.bufMu.RUnlock()
	return r.buf.Len()
}

// BufferLimit returns the retention bound; zero or less means unbounded.
func (r *Recorder[T]) BufferLimit() int { return r.opts.bufferLimit }

// ReverseChronological reports the display hint given at construction.
func (r *Recorder[T]) ReverseChronological() bool { return r.opts.reverse }

// Dispatch reports the dispatch mode.
func (r *Recorder[T]) Dispatch() Dispatch { return r.opts.dispatch }

func (r *Recorder[T]) apply(e entry.Entry, msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.transform(e, msg)
	r.bufMu.Lock()
	evicted := r.buf.Append(item)
	r.bufMu.Unlock()

	for _, f := range r.recorded.Callbacks() {
		f(r, item, evicted)
	}
	return evicted
}

func (r *Recorder[T]) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bufMu.Lock()
	r.buf.Clear()
	r.bufMu.Unlock()

	for _, f := range r.cleared.Callbacks() {
		f(r)
	}
}

// enqueueAndWait queues a control op and waits for the drain goroutine to
// reach it. It returns false if the recorder is already closed.
func (r *Recorder[T]) enqueueAndWait(kind opKind) bool {
	done := make(chan struct{})
	r.sendMu.RLock()
	if r.closed {
		r.sendMu.RUnlock()
		return false
	}
	r.queue <- op{kind: kind, done: done}
	r.sendMu.RUnlock()
	<-done
	return true
}

func (r *Recorder[T]) drain() {
	defer close(r.done)
	for o := range r.queue {
		switch o.kind {
		case opRecord:
			r.apply(o.entry, o.message)
		case opClear:
			r.clear()
		}
		if o.done != nil {
			close(o.done)
		}
	}
}
