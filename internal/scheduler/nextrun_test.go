package scheduler

import (
	"errors"
	"testing"
	"time"

	"promptyoself/internal/domain"
)

func TestNextCronRun(t *testing.T) {
	cases := []struct {
		name string
		expr string
		now  time.Time
		want time.Time
	}{
		{
			name: "daily before the hour",
			expr: "0 9 * * *",
			now:  time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "daily after the hour rolls to next day",
			expr: "0 9 * * *",
			now:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "month rollover",
			expr: "30 23 31 * *",
			now:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC),
		},
		{
			name: "year rollover",
			expr: "0 0 1 1 *",
			now:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exact match advances to the next occurrence",
			expr: "0 9 * * *",
			now:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextCronRun(tc.expr, tc.now)
			if err != nil {
				t.Fatalf("NextCronRun(%q): %v", tc.expr, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("NextCronRun(%q) at %v = %v, want %v", tc.expr, tc.now, got, tc.want)
			}
			if !got.After(tc.now) {
				t.Fatalf("next run %v not strictly after %v", got, tc.now)
			}
		})
	}
}

// Classic cron disjunction: when both day-of-month and day-of-week are
// restricted, a match on either field fires.
func TestNextCronRunDayFieldsDisjunction(t *testing.T) {
	// "at 00:00 on the 15th OR on any Monday"
	expr := "0 0 15 * 1"
	// 2024-01-10 is a Wednesday; the next Monday (Jan 15) happens to be the
	// 15th too, so step from a point where they diverge.
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) // Friday

	got, err := NextCronRun(expr, now)
	if err != nil {
		t.Fatal(err)
	}
	// March 4 2024 is a Monday, well before March 15.
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want Monday %v (day-of-week match must fire before day-of-month)", got, want)
	}
}

func TestNextCronRunInvalid(t *testing.T) {
	for _, expr := range []string{"", "* * *", "61 * * * *", "* 25 * * *", "not a cron"} {
		if _, err := NextCronRun(expr, time.Now()); err == nil {
			t.Errorf("NextCronRun(%q): expected error", expr)
		} else {
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("NextCronRun(%q): expected ValidationError, got %T", expr, err)
			}
		}
	}
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h", time.Hour},
		{"90", 90 * time.Second}, // bare digits default to seconds
		{"1s", time.Second},
	}
	for _, tc := range cases {
		got, err := ParseInterval(tc.in)
		if err != nil {
			t.Errorf("ParseInterval(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseInterval(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseIntervalInvalid(t *testing.T) {
	for _, in := range []string{"", "0s", "-5m", "abc", "5d", "1.5h", "m"} {
		if _, err := ParseInterval(in); err == nil {
			t.Errorf("ParseInterval(%q): expected error", in)
		}
	}
}

func TestNextRunByKind(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// once is always terminal here; registration validates the instant.
	_, ok, err := NextRun(domain.Schedule{Kind: domain.KindOnce, Definition: "2024-06-01T00:00:00Z"}, now)
	if err != nil || ok {
		t.Fatalf("once: got ok=%v err=%v, want terminal", ok, err)
	}

	next, ok, err := NextRun(domain.Schedule{Kind: domain.KindInterval, Definition: "5m"}, now)
	if err != nil || !ok {
		t.Fatalf("interval: ok=%v err=%v", ok, err)
	}
	if want := now.Add(5 * time.Minute); !next.Equal(want) {
		t.Fatalf("interval next = %v, want %v", next, want)
	}

	next, ok, err = NextRun(domain.Schedule{Kind: domain.KindCron, Definition: "0 9 * * *"}, now)
	if err != nil || !ok {
		t.Fatalf("cron: ok=%v err=%v", ok, err)
	}
	if want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("cron next = %v, want %v", next, want)
	}

	if _, _, err := NextRun(domain.Schedule{Kind: "weekly", Definition: "x"}, now); err == nil {
		t.Fatal("unknown kind: expected error")
	}
}
