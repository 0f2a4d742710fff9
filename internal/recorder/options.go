package recorder

import (
	"fmt"
	"strings"
)

// DefaultBufferLimit is the retention bound used when no limit is given.
const DefaultBufferLimit = 10_000

const defaultQueueSize = 1024

// Dispatch selects how Record hands work to the serialization boundary.
type Dispatch int

const (
	// Synchronous blocks the caller until the buffer is updated and every
	// callback has run.
	Synchronous Dispatch = iota
	// Deferred queues the mutation and returns immediately. Records from one
	// goroutine are applied in the order they were made.
	Deferred
)

func (d Dispatch) String() string {
	switch d {
	case Synchronous:
		return "sync"
	case Deferred:
		return "deferred"
	default:
		return fmt.Sprintf("dispatch(%d)", int(d))
	}
}

// ParseDispatch accepts "sync", "synchronous", "deferred" or "async".
func ParseDispatch(s string) (Dispatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sync", "synchronous":
		return Synchronous, nil
	case "deferred", "async":
		return Deferred, nil
	default:
		return Synchronous, fmt.Errorf("unknown dispatch mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dispatch) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dispatch) UnmarshalText(text []byte) error {
	parsed, err := ParseDispatch(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type options struct {
	formatters  []Formatter
	filters     []Filter
	bufferLimit int
	reverse     bool
	dispatch    Dispatch
	queueSize   int
}

// Option configures a Recorder.
type Option func(*options)

// WithFormatters sets the formatters consulted, in order, for each entry. The
// first one to produce a message wins. Default: PayloadFormatter.
func WithFormatters(fs ...Formatter) Option {
	return func(o *options) { o.formatters = fs }
}

// WithFilters adds predicates that must all accept an entry before it is
// formatted. A rejected entry is dropped silently.
func WithFilters(fs ...Filter) Option {
	return func(o *options) { o.filters = append(o.filters, fs...) }
}

// WithBufferLimit sets the maximum number of buffered items. Zero or less
// disables eviction; memory then grows until Clear is called.
// Default: DefaultBufferLimit.
func WithBufferLimit(n int) Option {
	return func(o *options) { o.bufferLimit = n }
}

// WithReverseChronological records a display hint for views. It does not
// change storage order.
func WithReverseChronological(reverse bool) Option {
	return func(o *options) { o.reverse = reverse }
}

// WithDispatch selects synchronous or deferred recording. Default: Synchronous.
func WithDispatch(d Dispatch) Option {
	return func(o *options) { o.dispatch = d }
}

// WithQueueSize sets the deferred queue capacity. Producers block once it is
// full. Default: 1024.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

func defaultOptions() options {
	return options{
		formatters:  []Formatter{PayloadFormatter},
		bufferLimit: DefaultBufferLimit,
		dispatch:    Synchronous,
		queueSize:   defaultQueueSize,
	}
}
