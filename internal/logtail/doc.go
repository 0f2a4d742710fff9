// Package logtail reads log files and turns their lines into entries.
//
// # Overview
//
// Three pieces feed a recorder from a file on disk:
//
//  1. Read: the last N lines of a file, for one-shot backfill (logbuf dump)
//  2. Follower: incremental reads of lines appended since the last poll
//  3. ParseLine/ParseLines: line text to entry.Entry
//
// # Reading Log Files
//
// Read keeps the last maxLines in a buffer.Bounded ring while scanning the
// file once, so memory is O(maxLines) regardless of file size. A negative
// maxLines returns every line.
//
//	lines, err := logtail.Read("/var/log/app.log", 400)
//
// # Following
//
// A Follower remembers the byte offset of the last complete line it handed
// out. On each Poll it:
//
//   - restarts at offset 0 when the path now names a different file (rotation)
//   - restarts at offset 0 when the file shrank below the offset (truncation)
//   - returns complete lines appended since the offset
//   - holds back a trailing line with no newline until the newline arrives
//
// Prime does the backfill and positions the follower in one pass, so no line
// is lost or duplicated between backfill and the first Poll.
//
//	f := logtail.NewFollower(path)
//	backlog, err := f.Prime(cfg.TailLines)
//	...
//	lines, err := f.Poll()
//
// A missing file is not an error for Read or Prime, but Poll reports it
// (wrapping os.ErrNotExist) so the poller can count failures.
//
// # Line Format
//
//	2024-10-10 14:32:15 INFO [encoder] encoding started
//	    - detail information
//
// The timestamp and [component] are optional. Level names are matched
// case-insensitively and accept the aliases entry.ParseSeverity accepts.
// ParseLines appends indented detail lines to the preceding entry's message.
// Lines that match nothing become Info entries carrying the raw text.
package logtail
