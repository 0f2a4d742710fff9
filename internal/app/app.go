package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/logbuf/internal/config"
	"github.com/five82/logbuf/internal/logging"
	"github.com/five82/logbuf/internal/logtail"
	"github.com/five82/logbuf/internal/prefs"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/state"
	"github.com/five82/logbuf/internal/ui"
	"github.com/five82/logbuf/internal/view"
)

// Options configure the inspector.
type Options struct {
	ConfigPath  string
	PrefsPath   string        // empty uses default ~/.config/logbuf/prefs.toml
	LogFile     string        // overrides log_file from the config
	PollEvery   time.Duration // zero uses poll_interval from the config
	Demo        bool          // run the demo producers
	DemoWorkers int
	Diagnostics io.Writer // optional copy of logbuf's own log output
}

// session is a recorder with everything attached to it.
type session struct {
	cfg      config.Config
	recorder *recorder.Recorder[recorder.Item]
	view     *view.View[recorder.Item]
	store    *state.Store
	logger   *slog.Logger
	detach   func()
}

func newSession(cfg config.Config, diagnostics io.Writer) (*session, error) {
	opts, err := cfg.RecorderOptions()
	if err != nil {
		return nil, err
	}
	rec := recorder.NewItemRecorder(opts...)

	store := &state.Store{}
	detach := state.Attach(store, rec)

	level := logging.ParseLevel(cfg.LogLevel)
	var diag slog.Handler
	if diagnostics != nil {
		diag = logging.NewHandler(diagnostics, level, false)
	}
	logger := slog.New(logging.Tee(
		recorder.NewHandler(rec, &slog.HandlerOptions{Level: level}),
		diag,
	)).With("component", "logbuf")

	v := view.New(rec, recorder.Item.Severity)
	if cfg.Order == view.Descending {
		v.SetOrder(view.Descending)
	}

	return &session{
		cfg:      cfg,
		recorder: rec,
		view:     v,
		store:    store,
		logger:   logger,
		detach:   detach,
	}, nil
}

func (s *session) Close() error {
	s.detach()
	return s.recorder.Close()
}

// Run boots the inspector TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return fmt.Errorf("resolve log file: %w", err)
		}
		cfg.LogFile = path
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if cfg.LogFile == "" && !opts.Demo {
		return errors.New("nothing to inspect: set log_file in the config, pass --file, or use --demo")
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	s, err := newSession(cfg, opts.Diagnostics)
	if err != nil {
		return err
	}
	defer s.Close()

	if userPrefs.Order != nil {
		s.view.SetOrder(*userPrefs.Order)
	}
	s.view.SetMinimumSeverity(userPrefs.MinimumSeverity)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var producers []<-chan struct{}
	source := "demo"
	if cfg.LogFile != "" {
		source = cfg.LogFile
		follower := logtail.NewFollower(cfg.LogFile)
		backlog, err := follower.Prime(cfg.TailLines)
		if err != nil {
			s.logger.Warn("backfill failed", "path", cfg.LogFile, "error", err)
		}
		for _, e := range logtail.ParseLines(backlog, nil) {
			s.recorder.Record(e)
		}
		producers = append(producers, StartPoller(ctx, Poller{
			Follower: follower,
			Sink:     s.recorder,
			Store:    s.store,
			Logger:   s.logger,
		}, cfg.PollInterval))
	}
	if opts.Demo {
		producers = append(producers, StartDemo(ctx, s.recorder, Demo{Workers: opts.DemoWorkers}))
	}

	s.logger.Info("inspector started",
		"source", source,
		"buffer_limit", cfg.BufferLimit,
		"dispatch", cfg.Dispatch.String())

	err = ui.Run(ui.Options{
		Context:   ctx,
		Recorder:  s.recorder,
		View:      s.view,
		Store:     s.store,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Source:    source,
		Logger:    s.logger,
	})

	cancel()
	for _, done := range producers {
		<-done
	}
	return err
}
