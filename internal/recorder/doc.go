// Package recorder buffers log entries in a bounded ring and notifies
// observers as items arrive or the buffer is cleared.
//
// # Overview
//
// A Recorder owns three things:
//
//   - a buffer.Bounded ring holding at most BufferLimit items (oldest evicted first)
//   - two callback registries: item-recorded and buffer-cleared
//   - a serialization boundary that every Record and Clear passes through
//
// Entries pass through the configured filters and formatters before they reach
// the boundary. The first formatter to return a message wins; if none does, the
// entry is dropped silently. Suppression is a normal outcome, not an error.
//
// # Item Shapes
//
// The buffered type is chosen by the transform given to New. Three shapes are
// provided ready-made:
//
//	rec := recorder.NewMessageRecorder()   // Recorder[string]
//	rec := recorder.NewEntryRecorder()     // Recorder[entry.Entry]
//	rec := recorder.NewItemRecorder()      // Recorder[recorder.Item]
//
// # Dispatch Modes
//
// Synchronous (default): Record blocks until the item is appended and every
// item-recorded callback has returned. Use it in tests and whenever the caller
// needs to observe the result before continuing.
//
// Deferred: Record formats the entry on the caller's goroutine, queues it and
// returns. A single drain goroutine applies queued work in FIFO order, so
// records from one producer keep their order. Flush waits for the queue to
// catch up; Close drains it and stops the goroutine.
//
// Clear is synchronous in both modes. In Deferred mode it is queued behind
// pending records and waits for its turn.
//
// # Concurrency
//
//	producer ─┐
//	producer ─┼─> Record ─> [format] ─> mu.Lock ─> append ─> callbacks ─> mu.Unlock
//	producer ─┘                                    (bufMu)
//
//	reader ───> Read / Snapshot / Len ─> bufMu.RLock
//
// mu serializes mutation plus callback dispatch, so two producers can never
// compute evictions from a stale length. bufMu guards only the ring itself;
// it is released before callbacks run so callbacks and views can read the
// buffer. Calling Record or Clear from inside a callback deadlocks.
//
// # Callbacks
//
// OnRecord and OnClear return a callback.Handle. Cancelling it (or passing it
// to RemoveCallback) stops future invocations. Dispatch iterates over a
// snapshot of the registry, so a callback may cancel itself mid-dispatch.
//
// # Unbounded Buffers
//
// WithBufferLimit(0) disables eviction. Memory then grows with every record
// until Clear is called; only use it for short-lived recorders.
//
// # slog Bridge
//
// Handler adapts any Sink (including every Recorder) into a slog.Handler:
//
//	rec := recorder.NewItemRecorder(recorder.WithFormatters(recorder.LineFormatter))
//	slog.SetDefault(slog.New(recorder.NewHandler(rec, nil)))
//	slog.Info("cache warmed", "component", "cache", "entries", 128)
package recorder
