// Package ui provides the terminal inspector for a log recorder.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program with a single scrolling pane. It never owns
// the buffer: entries live in a recorder.Recorder and are read through a
// view.View, which applies the display order and the minimum severity.
//
//	recorder ──OnRecord/OnClear──> changes (cap 1) ──waitForChange──> changedMsg
//	                                                                     │
//	view.Items() <───────────────────────── refresh ─────────────────────┘
//
// Recorder callbacks run inside the recorder's serialization boundary, so the
// bridge only signals. Bursts of records coalesce into one redraw.
//
// # Package Structure
//
//   - app.go: Model, Update loop, header and footer, Run
//   - logs.go: entry rendering
//   - keys.go: key bindings and help
//   - theme.go: color palettes and lipgloss styles
//
// # Following
//
// While following, every change re-renders the pane and jumps to the newest
// entry (bottom in ascending order, top in descending order). Space pauses;
// the header then marks that new entries arrived.
//
// # Preferences
//
// Theme, order, minimum severity and follow state are saved to the prefs file
// whenever they change. Save failures are logged and otherwise ignored.
package ui
