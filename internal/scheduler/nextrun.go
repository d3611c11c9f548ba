package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"promptyoself/internal/domain"
)

// NextRun computes the next occurrence for a schedule strictly after now.
// The second return is false when the schedule has no further occurrence
// (a one-time schedule after its instant has fired). All results are UTC.
//
// Finite repetition caps are not considered here: the delivery that brings
// the count up to the cap still needs a timestamp, and retirement is the
// executor's decision.
func NextRun(s domain.Schedule, now time.Time) (time.Time, bool, error) {
	switch s.Kind {
	case domain.KindOnce:
		return time.Time{}, false, nil
	case domain.KindCron:
		next, err := NextCronRun(s.Definition, now)
		if err != nil {
			return time.Time{}, false, err
		}
		return next, true, nil
	case domain.KindInterval:
		d, err := ParseInterval(s.Definition)
		if err != nil {
			return time.Time{}, false, err
		}
		return now.UTC().Add(d), true, nil
	default:
		return time.Time{}, false, domain.Validationf("unknown schedule kind %q", s.Kind)
	}
}

// NextCronRun returns the earliest instant strictly after now that satisfies
// the 5-field cron expression. The standard parser keeps classic cron
// semantics: when both day-of-month and day-of-week are restricted, a match
// on either field fires.
func NextCronRun(expr string, now time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, domain.Validationf("invalid cron expression %q: %v", expr, err)
	}
	return sched.Next(now.UTC()), nil
}

// ParseInterval parses a duration of the form "<N>s", "<N>m" or "<N>h".
// Bare digits mean seconds. The duration must be strictly positive.
func ParseInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, domain.Validationf("empty interval")
	}
	unit := time.Second
	digits := s
	switch {
	case strings.HasSuffix(s, "s"):
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		digits = s[:len(s)-1]
		unit = time.Minute
	case strings.HasSuffix(s, "h"):
		digits = s[:len(s)-1]
		unit = time.Hour
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, domain.Validationf("invalid interval %q: expected <N>s, <N>m or <N>h", s)
	}
	if n <= 0 {
		return 0, domain.Validationf("interval %q must be positive", s)
	}
	return time.Duration(n) * unit, nil
}
