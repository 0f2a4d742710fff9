package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"

	"github.com/five82/logbuf/internal/entry"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/view"
)

// Config holds everything needed to build a recorder, its view, and the
// producers feeding it.
type Config struct {
	BufferLimit          int
	Dispatch             recorder.Dispatch
	MinimumSeverity      entry.Severity
	Order                view.Order
	ReverseChronological bool
	Filter               string
	LogFile              string
	PollInterval         time.Duration
	TailLines            int
	LogLevel             string
}

const (
	defaultConfigPath   = "~/.config/logbuf/config.toml"
	defaultPollInterval = time.Second
	defaultTailLines    = 400
	defaultLogLevel     = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BufferLimit:     recorder.DefaultBufferLimit,
		Dispatch:        recorder.Deferred,
		MinimumSeverity: entry.Verbose,
		Order:           view.Ascending,
		PollInterval:    defaultPollInterval,
		TailLines:       defaultTailLines,
		LogLevel:        defaultLogLevel,
	}
}

type rawConfig struct {
	BufferLimit          *int   `toml:"buffer_limit" json:"buffer_limit"`
	Dispatch             string `toml:"dispatch" json:"dispatch"`
	MinimumSeverity      string `toml:"minimum_severity" json:"minimum_severity"`
	Order                string `toml:"order" json:"order"`
	ReverseChronological bool   `toml:"reverse_chronological" json:"reverse_chronological"`
	Filter               string `toml:"filter" json:"filter"`
	LogFile              string `toml:"log_file" json:"log_file"`
	PollInterval         string `toml:"poll_interval" json:"poll_interval"`
	TailLines            *int   `toml:"tail_lines" json:"tail_lines"`
	LogLevel             string `toml:"log_level" json:"log_level"`
}

// Load locates and parses the config, falling back to defaults when missing.
// Files ending in .json5 or .json are parsed as JSON5, everything else as
// TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".json5", ".json":
		err = json5.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if raw.BufferLimit != nil {
		cfg.BufferLimit = *raw.BufferLimit
	}
	if s := strings.TrimSpace(raw.Dispatch); s != "" {
		d, err := recorder.ParseDispatch(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid dispatch: %w", err)
		}
		cfg.Dispatch = d
	}
	if s := strings.TrimSpace(raw.MinimumSeverity); s != "" {
		sev, err := entry.ParseSeverity(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid minimum_severity: %w", err)
		}
		cfg.MinimumSeverity = sev
	}
	if s := strings.TrimSpace(raw.Order); s != "" {
		o, err := view.ParseOrder(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid order: %w", err)
		}
		cfg.Order = o
	}
	cfg.ReverseChronological = raw.ReverseChronological
	cfg.Filter = strings.TrimSpace(raw.Filter)
	if cfg.Filter != "" {
		if _, err := recorder.NewExprFilter(cfg.Filter); err != nil {
			return Config{}, fmt.Errorf("invalid filter: %w", err)
		}
	}
	if s := strings.TrimSpace(raw.LogFile); s != "" {
		cfg.LogFile = mustExpand(s)
	}
	if s := strings.TrimSpace(raw.PollInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid poll_interval: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid poll_interval: must be positive, got %s", d)
		}
		cfg.PollInterval = d
	}
	if raw.TailLines != nil {
		if *raw.TailLines < 0 {
			return Config{}, fmt.Errorf("invalid tail_lines: must not be negative, got %d", *raw.TailLines)
		}
		cfg.TailLines = *raw.TailLines
	}
	if s := strings.TrimSpace(raw.LogLevel); s != "" {
		cfg.LogLevel = strings.ToLower(s)
	}
	return cfg, nil
}

// RecorderOptions translates the config into recorder options.
// MinimumSeverity gates entries before they are buffered; views may raise the
// threshold further but can never show what was gated here.
func (c Config) RecorderOptions() ([]recorder.Option, error) {
	opts := []recorder.Option{
		recorder.WithBufferLimit(c.BufferLimit),
		recorder.WithDispatch(c.Dispatch),
		recorder.WithReverseChronological(c.ReverseChronological),
		recorder.WithFormatters(recorder.LineFormatter),
	}
	if c.MinimumSeverity > entry.Verbose {
		opts = append(opts, recorder.WithFilters(recorder.MinimumSeverity(c.MinimumSeverity)))
	}
	if c.Filter != "" {
		f, err := recorder.NewExprFilter(c.Filter)
		if err != nil {
			return nil, fmt.Errorf("compile filter: %w", err)
		}
		opts = append(opts, recorder.WithFilters(f))
	}
	return opts, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
