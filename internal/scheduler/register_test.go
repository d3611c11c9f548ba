package scheduler

import (
	"errors"
	"testing"
	"time"

	"promptyoself/internal/domain"
)

var regNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestBuildScheduleOnce(t *testing.T) {
	req := RegisterRequest{
		Recipient: "agent-123",
		Payload:   "check status",
		At:        "2024-06-01T09:00:00Z",
	}
	s, err := BuildSchedule(req, regNow)
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != domain.KindOnce {
		t.Fatalf("kind = %q, want once", s.Kind)
	}
	if want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC); !s.NextRun.Equal(want) {
		t.Fatalf("next_run = %v, want exactly the requested instant %v", s.NextRun, want)
	}
	if !s.Active || s.RepetitionsDone != 0 || s.MaxRepetitions != nil {
		t.Fatalf("unexpected initial state: %+v", s)
	}
}

func TestBuildScheduleOncePastFails(t *testing.T) {
	for _, at := range []string{"2023-12-31T23:59:59Z", "2024-01-01T12:00:00Z"} {
		_, err := BuildSchedule(RegisterRequest{Recipient: "a", Payload: "p", At: at}, regNow)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("at=%s: expected ValidationError, got %v", at, err)
		}
	}
}

func TestBuildScheduleInterval(t *testing.T) {
	s, err := BuildSchedule(RegisterRequest{
		Recipient:      "agent-123",
		Payload:        "ping",
		Every:          "5m",
		MaxRepetitions: 3,
	}, regNow)
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != domain.KindInterval || s.Definition != "5m" {
		t.Fatalf("unexpected schedule: %+v", s)
	}
	// First occurrence is registration time + duration, not an aligned grid.
	if want := regNow.Add(5 * time.Minute); !s.NextRun.Equal(want) {
		t.Fatalf("next_run = %v, want %v", s.NextRun, want)
	}
	if s.MaxRepetitions == nil || *s.MaxRepetitions != 3 {
		t.Fatalf("max_repetitions = %v, want 3", s.MaxRepetitions)
	}
}

func TestBuildScheduleCron(t *testing.T) {
	s, err := BuildSchedule(RegisterRequest{Recipient: "a", Payload: "p", Cron: "0 9 * * *"}, regNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC); !s.NextRun.Equal(want) {
		t.Fatalf("next_run = %v, want %v", s.NextRun, want)
	}
}

func TestBuildScheduleValidation(t *testing.T) {
	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing recipient", RegisterRequest{Payload: "p", Every: "5m"}},
		{"missing payload", RegisterRequest{Recipient: "a", Every: "5m"}},
		{"no kind", RegisterRequest{Recipient: "a", Payload: "p"}},
		{"conflicting kinds", RegisterRequest{Recipient: "a", Payload: "p", Cron: "0 9 * * *", Every: "5m"}},
		{"bad time", RegisterRequest{Recipient: "a", Payload: "p", At: "tomorrow"}},
		{"bad cron", RegisterRequest{Recipient: "a", Payload: "p", Cron: "x y z"}},
		{"bad interval", RegisterRequest{Recipient: "a", Payload: "p", Every: "0s"}},
		{"negative cap", RegisterRequest{Recipient: "a", Payload: "p", Every: "5m", MaxRepetitions: -1}},
		{"cap on once", RegisterRequest{Recipient: "a", Payload: "p", At: "2030-01-01T00:00:00Z", MaxRepetitions: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSchedule(tc.req, regNow)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestBuildScheduleNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	s, err := BuildSchedule(RegisterRequest{
		Recipient: "a",
		Payload:   "p",
		At:        "2024-06-01T11:00:00+02:00",
	}, regNow.In(loc))
	if err != nil {
		t.Fatal(err)
	}
	if s.NextRun.Location() != time.UTC {
		t.Fatalf("next_run not UTC: %v", s.NextRun)
	}
	if want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC); !s.NextRun.Equal(want) {
		t.Fatalf("next_run = %v, want %v", s.NextRun, want)
	}
}
