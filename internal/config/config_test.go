package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/logbuf/internal/entry"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/view"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want %+v", cfg, want)
	}
	if cfg.BufferLimit != recorder.DefaultBufferLimit || cfg.Dispatch != recorder.Deferred {
		t.Fatalf("defaults = limit %d dispatch %v", cfg.BufferLimit, cfg.Dispatch)
	}
}

func TestLoad_ParsesTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, "config.toml", `
buffer_limit = 250
dispatch = "sync"
minimum_severity = " warn "
order = "desc"
reverse_chronological = true
filter = 'component == "db"'
log_file = "  ~/logs/app.log  "
poll_interval = "250ms"
tail_lines = 20
log_level = "DEBUG"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BufferLimit != 250 {
		t.Fatalf("BufferLimit = %d, want 250", cfg.BufferLimit)
	}
	if cfg.Dispatch != recorder.Synchronous {
		t.Fatalf("Dispatch = %v, want sync", cfg.Dispatch)
	}
	if cfg.MinimumSeverity != entry.Warning {
		t.Fatalf("MinimumSeverity = %v, want WARN", cfg.MinimumSeverity)
	}
	if cfg.Order != view.Descending || !cfg.ReverseChronological {
		t.Fatalf("Order = %v reverse = %v, want desc true", cfg.Order, cfg.ReverseChronological)
	}
	if cfg.Filter != `component == "db"` {
		t.Fatalf("Filter = %q", cfg.Filter)
	}
	if cfg.LogFile != filepath.Join(home, "logs/app.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.TailLines != 20 || cfg.LogLevel != "debug" {
		t.Fatalf("TailLines = %d LogLevel = %q", cfg.TailLines, cfg.LogLevel)
	}
}

func TestLoad_ParsesJSON5(t *testing.T) {
	path := writeConfig(t, "config.json5", `{
  // unbounded buffer
  buffer_limit: 0,
  dispatch: 'deferred',
  tail_lines: 0,
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BufferLimit != 0 {
		t.Fatalf("BufferLimit = %d, want 0", cfg.BufferLimit)
	}
	if cfg.TailLines != 0 {
		t.Fatalf("TailLines = %d, want 0", cfg.TailLines)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want default", cfg.PollInterval)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := writeConfig(t, "config.toml", `
dispatch = "   "
order = ""
poll_interval = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`api = [`, "parse config"},
		{`dispatch = "later"`, "invalid dispatch"},
		{`minimum_severity = "loud"`, "invalid minimum_severity"},
		{`order = "sideways"`, "invalid order"},
		{`filter = "severity +"`, "invalid filter"},
		{`poll_interval = "soon"`, "invalid poll_interval"},
		{`poll_interval = "-1s"`, "invalid poll_interval"},
		{`tail_lines = -5`, "invalid tail_lines"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.toml", tt.body))
			if err == nil {
				t.Fatalf("Load(%q) returned nil error", tt.body)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRecorderOptions_BuildsWorkingRecorder(t *testing.T) {
	cfg := Default()
	cfg.BufferLimit = 2
	cfg.Dispatch = recorder.Synchronous
	cfg.MinimumSeverity = entry.Info
	cfg.Filter = `component != "noise"`

	opts, err := cfg.RecorderOptions()
	if err != nil {
		t.Fatalf("RecorderOptions: %v", err)
	}
	rec := recorder.NewMessageRecorder(opts...)
	for _, e := range []entry.Entry{
		{Severity: entry.Debug, Message: "hidden"},
		{Severity: entry.Info, Message: "one"},
		{Severity: entry.Error, Message: "two"},
		{Severity: entry.Error, Component: "noise", Message: "filtered"},
		{Severity: entry.Warning, Message: "three"},
	} {
		rec.Record(e)
	}

	got := rec.Snapshot()
	if len(got) != 2 || got[0] != "ERROR two" || got[1] != "WARN three" {
		t.Fatalf("Snapshot() = %v, want [ERROR two WARN three]", got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
