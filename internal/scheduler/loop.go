package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Loop runs the executor on a fixed period until the context is cancelled
// or Stop is called. Ticks run synchronously on the loop goroutine, so a
// slow tick delays the next one; two ticks never overlap.
type Loop struct {
	executor *Executor
	interval time.Duration
	stop     chan struct{}
}

func NewLoop(executor *Executor, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Loop{
		executor: executor,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start blocks until the loop is stopped. A failing tick is logged and the
// loop carries on.
func (l *Loop) Start(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", l.interval).Msg("scheduler loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler loop stopped")
			return
		case <-l.stop:
			log.Info().Msg("scheduler loop stopped")
			return
		case now := <-ticker.C:
			l.tick(ctx, now)
		}
	}
}

// Stop prevents any further tick from being scheduled. An in-flight tick
// runs to completion.
func (l *Loop) Stop() {
	close(l.stop)
}

func (l *Loop) tick(ctx context.Context, now time.Time) {
	results, err := l.executor.Tick(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("tick failed")
		return
	}
	if len(results) > 0 {
		delivered := 0
		for _, r := range results {
			if r.Delivered {
				delivered++
			}
		}
		log.Info().Int("processed", len(results)).Int("delivered", delivered).Msg("tick complete")
	}
}
