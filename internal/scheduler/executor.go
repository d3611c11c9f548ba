package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"promptyoself/internal/domain"
	"promptyoself/internal/store"
)

// Gateway delivers a payload to a recipient. Implementations own their own
// timeout policy; the executor only cares about eventual success or failure.
type Gateway interface {
	Send(ctx context.Context, recipient, payload string) error
}

// Executor performs one tick of work: find everything due, attempt delivery,
// write the outcome back. It is single-threaded; callers must not run two
// ticks concurrently.
type Executor struct {
	repo    store.Repository
	gateway Gateway
}

func NewExecutor(repo store.Repository, gateway Gateway) *Executor {
	return &Executor{repo: repo, gateway: gateway}
}

// Tick processes every schedule due at now and returns one result per row.
// A failing row never aborts the others. Redelivery after a crash between
// send and persist is accepted; there is no exactly-once guarantee.
func (e *Executor) Tick(ctx context.Context, now time.Time) ([]domain.ExecutionResult, error) {
	now = now.UTC()
	due, err := e.repo.Due(ctx, now)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("due", len(due)).Time("now", now).Msg("processing due schedules")

	results := make([]domain.ExecutionResult, 0, len(due))
	for _, s := range due {
		results = append(results, e.process(ctx, s, now))
	}
	return results, nil
}

func (e *Executor) process(ctx context.Context, s domain.Schedule, now time.Time) domain.ExecutionResult {
	res := domain.ExecutionResult{ID: s.ID, Recipient: s.Recipient}

	sendErr := e.gateway.Send(ctx, s.Recipient, s.Payload)
	lastRun := now
	s.LastRun = &lastRun

	if sendErr != nil {
		dErr := &domain.DeliveryError{Recipient: s.Recipient, Err: sendErr}
		res.Error = dErr.Error()
		log.Error().Err(sendErr).Str("schedule_id", s.ID).Str("recipient", s.Recipient).Msg("delivery failed")

		if s.Kind == domain.KindOnce {
			// One-time schedules get exactly one attempt.
			s.Active = false
		} else {
			// Leave next_run untouched so the same window is retried next tick.
			next := s.NextRun
			res.NextRun = &next
		}
	} else {
		res.Delivered = true

		if s.Kind == domain.KindOnce {
			s.Active = false
		} else {
			s.RepetitionsDone++
			if s.MaxRepetitions != nil && s.RepetitionsDone >= *s.MaxRepetitions {
				s.Active = false
				res.Completed = true
				log.Info().Str("schedule_id", s.ID).Int("repetitions", s.RepetitionsDone).Msg("repetition cap reached, deactivating")
			} else {
				next, ok, err := NextRun(s, now)
				if err != nil || !ok {
					// A stored definition that no longer computes is retired
					// rather than retried forever.
					s.Active = false
					if err != nil {
						res.Error = err.Error()
						log.Error().Err(err).Str("schedule_id", s.ID).Msg("next run computation failed")
					}
				} else {
					s.NextRun = next
					res.NextRun = &next
				}
			}
		}
	}

	if err := e.repo.Update(ctx, s); err != nil {
		res.Error = err.Error()
		log.Error().Err(err).Str("schedule_id", s.ID).Msg("failed to persist schedule state")
	}
	return res
}
