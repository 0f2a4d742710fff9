// Package entry defines the log entry and severity types shared by the recorder,
// its producers, and its views.
package entry

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Severity is the ordered importance of an entry. The order is important for
// filtering.
type Severity int

const (
	Verbose Severity = iota
	Debug
	Info
	Warning
	Error
)

// Severities returns every severity in ascending order.
func Severities() []Severity {
	return []Severity{Verbose, Debug, Info, Warning, Error}
}

// String returns the upper-case label used in formatted lines.
func (s Severity) String() string {
	switch s {
	case Verbose:
		return "VERBOSE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Next cycles to the following severity, wrapping from Error to Verbose.
func (s Severity) Next() Severity {
	if s >= Error || s < Verbose {
		return Verbose
	}
	return s + 1
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s >= Verbose && s <= Error
}

// ParseSeverity converts a level name such as "info" or "WARN" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "trace":
		return Verbose, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warning, nil
	case "error", "err":
		return Error, nil
	default:
		return Verbose, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FromSlog maps a slog level onto a Severity. Levels below slog.LevelDebug
// are treated as verbose.
func FromSlog(level slog.Level) Severity {
	switch {
	case level < slog.LevelDebug:
		return Verbose
	case level < slog.LevelInfo:
		return Debug
	case level < slog.LevelWarn:
		return Info
	case level < slog.LevelError:
		return Warning
	default:
		return Error
	}
}

// Slog returns the closest slog level.
func (s Severity) Slog() slog.Level {
	switch s {
	case Verbose:
		return slog.LevelDebug - 4
	case Debug:
		return slog.LevelDebug
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is a single unit of log input.
type Entry struct {
	Severity  Severity
	Timestamp time.Time // display only; storage order is arrival order
	Message   string
	Component string
	Fields    map[string]string
}

// New returns an entry stamped with the current time.
func New(severity Severity, message string) Entry {
	return Entry{Severity: severity, Timestamp: time.Now(), Message: message}
}
