package recorder

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/five82/logbuf/internal/entry"
)

// componentKey is lifted out of the attributes into Entry.Component.
const componentKey = "component"

// Sink accepts entries. *Recorder[T] satisfies it for every T.
type Sink interface {
	Record(entry.Entry) (appended, evicted bool)
}

// Handler is a slog.Handler that turns log records into entries and records
// them in a Sink, so a program's own slog output can be inspected live.
type Handler struct {
	sink   Sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a handler writing to sink. A nil opts records every
// level at or above slog.LevelInfo.
func NewHandler(sink Sink, opts *slog.HandlerOptions) *Handler {
	h := &Handler{sink: sink, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. It never returns an error; suppression by
// the sink's formatters is not a failure.
func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	e := entry.Entry{
		Severity:  entry.FromSlog(rec.Level),
		Timestamp: rec.Time,
		Message:   rec.Message,
	}

	fields := make(map[string]string, len(h.attrs)+rec.NumAttrs())
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		flatten(fields, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		flatten(fields, prefix, a)
		return true
	})
	if c, ok := fields[componentKey]; ok {
		e.Component = c
		delete(fields, componentKey)
	}
	if len(fields) > 0 {
		e.Fields = fields
	}

	h.sink.Record(e)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	prefix := strings.Join(h.groups, ".")
	h2.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		if prefix != "" {
			a = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clone(h.groups), name)
	return &h2
}

func flatten(dst map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			flatten(dst, key, ga)
		}
		return
	}
	dst[key] = a.Value.String()
}
