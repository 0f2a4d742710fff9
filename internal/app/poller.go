package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/logbuf/internal/logtail"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/state"
)

const (
	defaultPollInterval = time.Second
	maxBackoff          = 30 * time.Second
)

// Poller feeds lines appended to a followed file into a recorder.
type Poller struct {
	Follower *logtail.Follower
	Sink     recorder.Sink
	Store    *state.Store
	Logger   *slog.Logger
	Location *time.Location // timestamps in the file; nil means time.Local
}

// StartPoller launches a background goroutine that polls the follower at a
// fixed cadence, backing off while the file is unreadable. It returns a
// channel closed once the goroutine exits after ctx is cancelled.
func StartPoller(ctx context.Context, p Poller, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		failures := 0
		for {
			if err := p.refresh(); err != nil {
				failures++
				p.logger().Warn("log poll failed",
					"path", p.Follower.Path(),
					"failures", failures,
					"error", err)
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}
	}()
	return done
}

func (p Poller) refresh() error {
	lines, err := p.Follower.Poll()
	if p.Store != nil {
		p.Store.UpdateSource(err)
	}
	if err != nil {
		return err
	}
	for _, e := range logtail.ParseLines(lines, p.Location) {
		p.Sink.Record(e)
	}
	return nil
}

func (p Poller) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// calculateBackoff doubles the base interval for each consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
