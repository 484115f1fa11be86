package parking

import (
	"errors"
	"testing"
	"time"
)

func completedSession(d time.Duration) *Session {
	entry := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	exit := entry.Add(d)
	return &Session{EntryTime: entry, ExitTime: &exit}
}

func TestSessionCost(t *testing.T) {
	cases := []struct {
		name        string
		duration    time.Duration
		hourlyCents int64
		want        string
	}{
		{"two hours at 5.00", 2 * time.Hour, 500, "10.00 USD"},
		{"ninety minutes at 4.00", 90 * time.Minute, 400, "6.00 USD"},
		{"one hour at 3.00", time.Hour, 300, "3.00 USD"},
		{"twenty minutes at 3.00", 20 * time.Minute, 300, "1.00 USD"},
	}
	for _, c := range cases {
		rate := &Rate{VehicleType: "car", HourlyCents: c.hourlyCents, Currency: "USD"}
		got, err := SessionCost(completedSession(c.duration), rate)
		if err != nil {
			t.Fatalf("%s: SessionCost: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestSessionCostInProgress(t *testing.T) {
	s := &Session{EntryTime: time.Now()}
	if _, err := SessionCost(s, &Rate{HourlyCents: 100, Currency: "USD"}); !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("expected ErrSessionInProgress, got %v", err)
	}
}

func TestSessionCostExitBeforeEntry(t *testing.T) {
	if _, err := SessionCost(completedSession(-time.Hour), &Rate{HourlyCents: 100, Currency: "USD"}); !errors.Is(err, ErrExitBeforeEntry) {
		t.Fatalf("expected ErrExitBeforeEntry, got %v", err)
	}
}

func TestSessionCostUnknownRate(t *testing.T) {
	if _, err := SessionCost(completedSession(time.Hour), nil); !errors.Is(err, ErrUnknownVehicleType) {
		t.Fatalf("expected ErrUnknownVehicleType, got %v", err)
	}
}

func TestSessionDuration(t *testing.T) {
	s := completedSession(45 * time.Minute)
	d, done := s.Duration()
	if !done || d != 45*time.Minute {
		t.Fatalf("expected 45m done, got %v %v", d, done)
	}
	if _, done := (&Session{}).Duration(); done {
		t.Fatalf("expected in-progress")
	}
}
