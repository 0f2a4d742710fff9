package recorder

import (
	"testing"
	"time"

	"github.com/five82/logbuf/internal/entry"
)

func TestNewExprFilter(t *testing.T) {
	dbErr := entry.Entry{
		Severity:  entry.Error,
		Timestamp: time.UnixMilli(1_700_000_000_000),
		Component: "db",
		Message:   "connection reset",
		Fields:    map[string]string{"request": "abc-123"},
	}
	uiInfo := entry.Entry{Severity: entry.Info, Component: "ui", Message: "redraw"}

	tests := []struct {
		expr  string
		entry entry.Entry
		want  bool
	}{
		{"", uiInfo, true},
		{"severity >= 3", dbErr, true},
		{"severity >= 3", uiInfo, false},
		{`level == "info"`, uiInfo, true},
		{`component == "db" && message.contains("reset")`, dbErr, true},
		{`fields["request"].startsWith("abc")`, dbErr, true},
		{`ts_ms > 1600000000000`, dbErr, true},
		// missing map key is an evaluation error, which rejects
		{`fields["request"] == "x"`, uiInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewExprFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewExprFilter(%q): %v", tt.expr, err)
			}
			if got := f(tt.entry); got != tt.want {
				t.Fatalf("filter(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestNewExprFilter_Errors(t *testing.T) {
	for _, expr := range []string{
		"severity +",
		"unknown_var == 1",
		`message + "x"`,
	} {
		if _, err := NewExprFilter(expr); err == nil {
			t.Errorf("NewExprFilter(%q) succeeded, want error", expr)
		}
	}
}

func TestNewExprFilter_WithRecorder(t *testing.T) {
	f, err := NewExprFilter(`component != "noise"`)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewMessageRecorder(WithFilters(f))
	rec.Record(entry.Entry{Severity: entry.Info, Component: "noise", Message: "drop"})
	rec.Record(entry.Entry{Severity: entry.Info, Component: "core", Message: "keep"})

	if got := rec.Snapshot(); len(got) != 1 || got[0] != "keep" {
		t.Fatalf("Snapshot() = %v, want [keep]", got)
	}
}
