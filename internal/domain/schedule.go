package domain

import "time"

// ScheduleKind selects how a schedule's definition is interpreted.
type ScheduleKind string

const (
	KindOnce     ScheduleKind = "once"     // definition is an absolute RFC 3339 instant
	KindCron     ScheduleKind = "cron"     // definition is a 5-field cron expression
	KindInterval ScheduleKind = "interval" // definition is a duration like "30s", "5m", "1h"
)

// Schedule is a persisted intent to deliver a payload to a recipient at one
// or more future instants. All timestamps are UTC.
type Schedule struct {
	ID              string       `json:"id"`
	Recipient       string       `json:"recipient"`
	Payload         string       `json:"payload"`
	Kind            ScheduleKind `json:"kind"`
	Definition      string       `json:"definition"`
	NextRun         time.Time    `json:"next_run"`
	MaxRepetitions  *int         `json:"max_repetitions,omitempty"`
	RepetitionsDone int          `json:"repetitions_done"`
	Active          bool         `json:"active"`
	LastRun         *time.Time   `json:"last_run,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ExecutionResult describes one delivery attempt made during a tick.
// NextRun is nil when the schedule reached a terminal state.
type ExecutionResult struct {
	ID        string     `json:"id"`
	Recipient string     `json:"recipient"`
	Delivered bool       `json:"delivered"`
	NextRun   *time.Time `json:"next_run"`
	Completed bool       `json:"completed,omitempty"`
	Error     string     `json:"error,omitempty"`
}
