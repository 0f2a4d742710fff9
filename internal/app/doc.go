// Package app provides the orchestration layer for logbuf.
//
// # Overview
//
// This package wires configuration, the recorder, its producers, the state
// store and the UI together. It is the composition root: every dependency is
// created here and handed to the packages that use it.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load config (TOML or JSON5) and apply command-line overrides
//  2. Build a session: recorder, view, state.Store and a logger that records
//     logbuf's own output into the same buffer
//  3. Apply saved UI preferences to the view
//  4. Backfill the tail of the log file, then start the poller and/or the
//     demo producers
//  5. Start the TUI and block until the user exits or the context is cancelled
//  6. Cancel the producers and wait for them before closing the recorder
//
// # Components
//
//   - app.go: session construction and Run
//   - poller.go: background goroutine following the log file
//   - demo.go: synthetic producers for trying the inspector without a log
//   - dump.go: one-shot, non-interactive rendering of a file through the view
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config
//	       ├─────> newSession()           Recorder, view, store, logger
//	       ├─────> Follower.Prime()       Backfill tail_lines
//	       ├─────> StartPoller()          Follow appended lines
//	       ├─────> StartDemo()            Optional demo workers
//	       └─────> ui.Run()               Start TUI (blocks)
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> Follower.Poll()                    │
//	│  ├─> logtail.ParseLines()               │
//	│  ├─> Sink.Record()  (per entry)         │
//	│  └─> Store.UpdateSource(err)            │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file present but invalid
//   - No log file and no demo producers
//   - Invalid filter expression
//
// Recoverable errors (logged, polling continues with backoff):
//   - Log file missing or unreadable
//   - Rotation or truncation races
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{LogFile: "/var/log/app.log"}); err != nil {
//		log.Fatalf("logbuf failed: %v", err)
//	}
package app
