package app

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/five82/logbuf/internal/entry"
	"github.com/five82/logbuf/internal/recorder"
)

// FirstDemoMessage opens every demo stream.
const FirstDemoMessage = "This is the very first log message of the stream. There will be many other messages following it, but this is the first message."

type sample struct {
	severity entry.Severity
	message  string
}

var samples = []sample{
	{entry.Verbose, "Very short message"},
	{entry.Verbose, "Another short message"},
	{entry.Verbose, "One short message"},
	{entry.Verbose, "Common message"},
	{entry.Verbose, "Lorem ipsum dolor sit amet."},
	{entry.Verbose, "Logging reallyLongSelectorNameThatShouldCauseTroubleWrapAroundAndBlahBlahBlahBlahFooBarBazIncBearBottleBatteryBellyBrewDone."},
	{entry.Debug, "Started coffee"},
	{entry.Info, "Short message"},
	{entry.Info, "Long message, Lorem ipsum dolor sit amet, consectetur adipiscing elit. Proin nec commodo elit. Curabitur imperdiet, enim nec ultricies egestas, eros lacus varius dui, ut rhoncus mi lorem eu ligula. Quisque fringilla ullamcorper mauris eu posuere. Aenean non purus leo. Maecenas aliquet nulla ut purus pharetra finibus. Fusce convallis enim sit amet vulputate rhoncus. Maecenas interdum iaculis mi luctus luctus."},
	{entry.Warning, "Something might go wrong... Lorem ipsum dolor sit amet, consectetur adipiscing elit."},
	{entry.Error, "Failed to do something."},
}

// Demo configures StartDemo.
type Demo struct {
	Workers  int           // concurrent producers; zero means 1
	Interval time.Duration // per-worker delay between entries; zero means 10ms
	Seed     uint64        // zero picks a time-based seed
}

// StartDemo records FirstDemoMessage and then launches Workers goroutines that
// each record a random sample entry every Interval until ctx is cancelled.
// The returned channel closes once every worker has stopped.
func StartDemo(ctx context.Context, sink recorder.Sink, d Demo) <-chan struct{} {
	workers := max(d.Workers, 1)
	interval := d.Interval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	seed := d.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	sink.Record(entry.Entry{
		Severity:  entry.Info,
		Timestamp: time.Now(),
		Component: "demo",
		Message:   FirstDemoMessage,
	})

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			worker := strconv.Itoa(w)
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					s := samples[rng.IntN(len(samples))]
					sink.Record(entry.Entry{
						Severity:  s.severity,
						Timestamp: now,
						Component: "demo",
						Message:   s.message,
						Fields:    map[string]string{"worker": worker},
					})
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
