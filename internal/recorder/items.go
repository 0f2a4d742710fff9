package recorder

import "github.com/five82/logbuf/internal/entry"

// Item pairs an entry with its formatted message.
type Item struct {
	Entry   entry.Entry
	Message string
}

// Severity returns the severity of the underlying entry.
func (i Item) Severity() entry.Severity { return i.Entry.Severity }

// NewMessageRecorder buffers formatted messages only.
func NewMessageRecorder(opts ...Option) *Recorder[string] {
	return New(func(_ entry.Entry, msg string) string { return msg }, opts...)
}

// NewEntryRecorder buffers the raw entries.
func NewEntryRecorder(opts ...Option) *Recorder[entry.Entry] {
	return New(func(e entry.Entry, _ string) entry.Entry { return e }, opts...)
}

// NewItemRecorder buffers each entry together with its formatted message.
func NewItemRecorder(opts ...Option) *Recorder[Item] {
	return New(func(e entry.Entry, msg string) Item { return Item{Entry: e, Message: msg} }, opts...)
}
