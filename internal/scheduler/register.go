package scheduler

import (
	"time"

	"promptyoself/internal/domain"
)

// RegisterRequest carries the raw inputs of a registration. Exactly one of
// At, Cron or Every must be set.
type RegisterRequest struct {
	Recipient      string `json:"recipient"`
	Payload        string `json:"payload"`
	At             string `json:"at,omitempty"`    // RFC 3339 instant, one-time
	Cron           string `json:"cron,omitempty"`  // 5-field cron expression
	Every          string `json:"every,omitempty"` // interval like "30s", "5m", "1h"
	MaxRepetitions int    `json:"max_repetitions,omitempty"`
}

// BuildSchedule validates a registration request and produces the schedule
// record to persist, with its initial next run computed relative to now.
func BuildSchedule(req RegisterRequest, now time.Time) (domain.Schedule, error) {
	if req.Recipient == "" {
		return domain.Schedule{}, domain.Validationf("missing required argument: recipient")
	}
	if req.Payload == "" {
		return domain.Schedule{}, domain.Validationf("missing required argument: payload")
	}

	set := 0
	for _, v := range []string{req.At, req.Cron, req.Every} {
		if v != "" {
			set++
		}
	}
	if set == 0 {
		return domain.Schedule{}, domain.Validationf("must specify one of --at, --cron or --every")
	}
	if set > 1 {
		return domain.Schedule{}, domain.Validationf("--at, --cron and --every are mutually exclusive")
	}
	if req.MaxRepetitions < 0 {
		return domain.Schedule{}, domain.Validationf("max repetitions must be positive")
	}

	now = now.UTC()
	s := domain.Schedule{
		Recipient: req.Recipient,
		Payload:   req.Payload,
		Active:    true,
		CreatedAt: now,
	}

	switch {
	case req.At != "":
		if req.MaxRepetitions != 0 {
			return domain.Schedule{}, domain.Validationf("max repetitions only applies to recurring schedules")
		}
		at, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			return domain.Schedule{}, domain.Validationf("invalid time %q: expected RFC 3339", req.At)
		}
		at = at.UTC()
		if !at.After(now) {
			return domain.Schedule{}, domain.Validationf("scheduled time must be in the future")
		}
		s.Kind = domain.KindOnce
		s.Definition = req.At
		s.NextRun = at

	case req.Cron != "":
		next, err := NextCronRun(req.Cron, now)
		if err != nil {
			return domain.Schedule{}, err
		}
		s.Kind = domain.KindCron
		s.Definition = req.Cron
		s.NextRun = next

	default:
		d, err := ParseInterval(req.Every)
		if err != nil {
			return domain.Schedule{}, err
		}
		s.Kind = domain.KindInterval
		s.Definition = req.Every
		s.NextRun = now.Add(d)
	}

	if req.MaxRepetitions > 0 {
		n := req.MaxRepetitions
		s.MaxRepetitions = &n
	}
	return s, nil
}
