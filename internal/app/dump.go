package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/logbuf/internal/config"
	"github.com/five82/logbuf/internal/entry"
	"github.com/five82/logbuf/internal/logtail"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/view"
)

// DumpOptions configure Dump. Empty fields fall back to the config file.
type DumpOptions struct {
	ConfigPath  string
	LogFile     string
	Order       string
	MinSeverity string
	Filter      string
	Limit       int // lines read from the end of the file; zero uses tail_lines, negative reads all
	BufferLimit *int
	Location    *time.Location
}

// Dump reads the tail of a log file through a synchronous recorder and writes
// the visible items to w, one per line.
func Dump(w io.Writer, opts DumpOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Dispatch = recorder.Synchronous
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return fmt.Errorf("resolve log file: %w", err)
		}
		cfg.LogFile = path
	}
	if cfg.LogFile == "" {
		return errors.New("no log file: set log_file in the config or pass --file")
	}
	if f := strings.TrimSpace(opts.Filter); f != "" {
		if _, err := recorder.NewExprFilter(f); err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		cfg.Filter = f
	}
	if opts.BufferLimit != nil {
		cfg.BufferLimit = *opts.BufferLimit
	}
	limit := cfg.TailLines
	if opts.Limit != 0 {
		limit = opts.Limit
	}

	s, err := newSession(cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Order != "" {
		o, err := view.ParseOrder(opts.Order)
		if err != nil {
			return fmt.Errorf("invalid order: %w", err)
		}
		s.view.SetOrder(o)
	}
	if opts.MinSeverity != "" {
		sev, err := entry.ParseSeverity(opts.MinSeverity)
		if err != nil {
			return fmt.Errorf("invalid minimum severity: %w", err)
		}
		s.view.SetMinimumSeverity(sev)
	}

	lines, err := logtail.Read(cfg.LogFile, limit)
	if err != nil {
		return err
	}
	for _, e := range logtail.ParseLines(lines, opts.Location) {
		s.recorder.Record(e)
	}

	for _, item := range s.view.Items() {
		if _, err := fmt.Fprintln(w, item.Message); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
