package recorder

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/five82/logbuf/internal/entry"
)

// Formatter turns an entry into the message that gets buffered. Returning
// false suppresses the entry for this formatter.
type Formatter func(entry.Entry) (string, bool)

// Filter decides whether an entry reaches the formatters at all.
type Filter func(entry.Entry) bool

const lineTimestampLayout = "2006-01-02 15:04:05"

// PayloadFormatter yields the entry's message, suppressing empty ones.
func PayloadFormatter(e entry.Entry) (string, bool) {
	msg := strings.TrimSpace(e.Message)
	return msg, msg != ""
}

// LineFormatter renders "2006-01-02 15:04:05 LEVEL [component] message k=v".
// Fields are sorted by key.
func LineFormatter(e entry.Entry) (string, bool) {
	msg := strings.TrimSpace(e.Message)
	if msg == "" && len(e.Fields) == 0 {
		return "", false
	}
	parts := make([]string, 0, 4)
	if !e.Timestamp.IsZero() {
		parts = append(parts, e.Timestamp.Format(lineTimestampLayout))
	}
	parts = append(parts, e.Severity.String())
	if component := strings.TrimSpace(e.Component); component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	if msg != "" {
		parts = append(parts, msg)
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, k+"="+quoteIfNeeded(e.Fields[k]))
	}
	return strings.Join(parts, " "), true
}

func quoteIfNeeded(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return fmt.Sprintf("%q", v)
	}
	return v
}

// MinimumSeverity accepts entries at or above min.
func MinimumSeverity(min entry.Severity) Filter {
	return func(e entry.Entry) bool { return e.Severity >= min }
}

// format applies filters then formatters; ok is false when the entry is
// suppressed.
func (o *options) format(e entry.Entry) (string, bool) {
	for _, f := range o.filters {
		if !f(e) {
			return "", false
		}
	}
	for _, f := range o.formatters {
		if msg, ok := f(e); ok {
			return msg, true
		}
	}
	return "", false
}
