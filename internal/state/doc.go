// Package state keeps running statistics about a recorder and the source
// feeding it.
//
// # Overview
//
// The recorder itself only knows what is in its buffer right now. The UI
// status bar also wants to know how much has passed through it, how much was
// evicted, and whether the followed log file is still readable. Store
// collects those numbers from two producers:
//
//	Recorder callbacks:            Poller:
//	┌──────────────────┐          ┌──────────────────┐
//	│ OnRecord         │          │ Follower.Poll()  │
//	│   ObserveRecord  │          │   UpdateSource   │
//	│ OnClear          │          │                  │
//	│   ObserveClear   │          │                  │
//	└────────┬─────────┘          └────────┬─────────┘
//	         └──────────→ Store ←──────────┘
//	                        │
//	                   Snapshot() → UI
//
// Attach wires the recorder side in one call.
//
// # Concurrency Model
//
// Store uses a readers-writer lock. Observe* and UpdateSource take the write
// lock; Snapshot takes the read lock and returns a value copy, including a
// fresh wrapper around LastError.
//
// Recorder callbacks run inside the recorder's serialization boundary, so
// ObserveRecord must stay short. It only bumps counters.
//
// # Error Propagation
//
// UpdateSource(err) keeps every counter and records err with a timestamp.
// Two consecutive failures make IsOffline report true until the next
// successful poll.
//
// The zero Store is ready to use.
package state
