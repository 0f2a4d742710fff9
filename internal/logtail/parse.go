package logtail

import (
	"regexp"
	"strings"
	"time"

	"github.com/five82/logbuf/internal/entry"
)

// TimestampLayout is the timestamp prefix ParseLine understands.
const TimestampLayout = "2006-01-02 15:04:05"

var lineRe = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})?\s*` +
		`(?i:(VERBOSE|TRACE|DEBUG|INFO|WARN|WARNING|ERROR|ERR))(?:\s+|$)` +
		`(?:\[([^\]]+)\])?\s*` +
		`(.*)$`)

// ParseLine converts a line of the form
//
//	2006-01-02 15:04:05 LEVEL [component] message
//
// into an entry. The timestamp and component are optional and timestamps are
// read in loc (time.Local when nil). Lines that do not match become Info
// entries carrying the raw text; ok reports whether the line matched.
func ParseLine(line string, loc *time.Location) (e entry.Entry, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return entry.Entry{Severity: entry.Info, Message: line}, false
	}
	sev, err := entry.ParseSeverity(m[2])
	if err != nil {
		return entry.Entry{Severity: entry.Info, Message: line}, false
	}
	e = entry.Entry{
		Severity:  sev,
		Component: strings.TrimSpace(m[3]),
		Message:   strings.TrimSpace(m[4]),
	}
	if m[1] != "" {
		if ts, err := time.ParseInLocation(TimestampLayout, m[1], loc); err == nil {
			e.Timestamp = ts
		}
	}
	return e, true
}

// ParseLines parses lines in order. Indented lines that follow a parsed line
// are detail lines and are appended to that entry's message.
func ParseLines(lines []string, loc *time.Location) []entry.Entry {
	out := make([]entry.Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isDetail(line) && len(out) > 0 {
			last := &out[len(out)-1]
			last.Message += "\n" + strings.TrimRight(line, " \t")
			continue
		}
		e, _ := ParseLine(line, loc)
		out = append(out, e)
	}
	return out
}

func isDetail(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
