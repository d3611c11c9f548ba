package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"promptyoself/internal/domain"
)

// EnsureSchema creates the schedules table if it doesn't exist.
func EnsureSchema(db *sql.DB) error {
	schema := `
PRAGMA journal_mode=WAL;
CREATE TABLE IF NOT EXISTS schedules (
  id TEXT PRIMARY KEY,
  recipient TEXT NOT NULL,
  payload TEXT NOT NULL,
  kind TEXT NOT NULL CHECK(kind IN ('once','cron','interval')),
  definition TEXT NOT NULL,
  next_run DATETIME NOT NULL,
  max_repetitions INTEGER,
  repetitions_done INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  last_run DATETIME,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_schedules_due ON schedules(active, next_run);
CREATE INDEX IF NOT EXISTS idx_schedules_recipient ON schedules(recipient);
`
	_, err := db.Exec(schema)
	return err
}

// Repository is the persistence surface for schedules. Cancellation is a
// soft delete: rows are deactivated, never removed.
type Repository interface {
	Create(ctx context.Context, s domain.Schedule) (string, error)
	Get(ctx context.Context, id string) (domain.Schedule, error)
	List(ctx context.Context, recipient string, includeInactive bool) ([]domain.Schedule, error)
	Update(ctx context.Context, s domain.Schedule) error
	Deactivate(ctx context.Context, id string) (bool, error)
	Due(ctx context.Context, now time.Time) ([]domain.Schedule, error)
}

type sqliteRepo struct{ db *sql.DB }

func NewSQLiteRepo(db *sql.DB) Repository { return &sqliteRepo{db: db} }

const scheduleCols = `id,recipient,payload,kind,definition,next_run,max_repetitions,repetitions_done,active,last_run,created_at,updated_at`

func (r *sqliteRepo) Create(ctx context.Context, s domain.Schedule) (string, error) {
	id := s.ID
	if id == "" {
		id = "sch_" + uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO schedules (id,recipient,payload,kind,definition,next_run,max_repetitions,repetitions_done,active,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,0,1,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
`, id, s.Recipient, s.Payload, string(s.Kind), s.Definition, s.NextRun.UTC(), maxRepsArg(s.MaxRepetitions))
	if err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}
	return id, nil
}

func (r *sqliteRepo) Get(ctx context.Context, id string) (domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+scheduleCols+` FROM schedules WHERE id=?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Schedule{}, &domain.StoreError{Op: "get", Err: err}
	}
	return s, nil
}

func (r *sqliteRepo) List(ctx context.Context, recipient string, includeInactive bool) ([]domain.Schedule, error) {
	q := `SELECT ` + scheduleCols + ` FROM schedules WHERE 1=1`
	var args []any
	if !includeInactive {
		q += ` AND active=1`
	}
	if recipient != "" {
		q += ` AND recipient=?`
		args = append(args, recipient)
	}
	q += ` ORDER BY next_run`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	return schedules, nil
}

func (r *sqliteRepo) Update(ctx context.Context, s domain.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE schedules SET next_run=?,repetitions_done=?,active=?,last_run=?,updated_at=CURRENT_TIMESTAMP
WHERE id=?`, s.NextRun.UTC(), s.RepetitionsDone, s.Active, lastRunArg(s.LastRun), s.ID)
	if err != nil {
		return &domain.StoreError{Op: "update", Err: err}
	}
	return nil
}

// Deactivate soft-deletes a schedule. Returns false when the id is unknown
// or the schedule is already inactive.
func (r *sqliteRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE schedules SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND active=1`, id)
	if err != nil {
		return false, &domain.StoreError{Op: "deactivate", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StoreError{Op: "deactivate", Err: err}
	}
	return n > 0, nil
}

func (r *sqliteRepo) Due(ctx context.Context, now time.Time) ([]domain.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+scheduleCols+` FROM schedules WHERE active=1 AND next_run <= ? ORDER BY next_run`, now.UTC())
	if err != nil {
		return nil, &domain.StoreError{Op: "due", Err: err}
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: "due", Err: err}
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "due", Err: err}
	}
	return schedules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (domain.Schedule, error) {
	var (
		s       domain.Schedule
		kind    string
		maxReps sql.NullInt64
		lastRun sql.NullTime
	)
	err := row.Scan(&s.ID, &s.Recipient, &s.Payload, &kind, &s.Definition, &s.NextRun,
		&maxReps, &s.RepetitionsDone, &s.Active, &lastRun, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Schedule{}, err
	}
	s.Kind = domain.ScheduleKind(kind)
	if maxReps.Valid {
		n := int(maxReps.Int64)
		s.MaxRepetitions = &n
	}
	if lastRun.Valid {
		t := lastRun.Time.UTC()
		s.LastRun = &t
	}
	s.NextRun = s.NextRun.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func maxRepsArg(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func lastRunArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
