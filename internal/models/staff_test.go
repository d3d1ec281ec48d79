package models

import (
	"testing"
	"time"
)

func TestNextDutyStatus(t *testing.T) {
	tests := []struct {
		current DutyStatus
		want    DutyStatus
	}{
		{DutyActive, DutyOnBreak},
		{DutyOnBreak, DutyInactive},
		{DutyInactive, DutyActive},
	}
	for _, tt := range tests {
		if got := NextDutyStatus(tt.current); got != tt.want {
			t.Errorf("NextDutyStatus(%s) = %s, want %s", tt.current, got, tt.want)
		}
	}
}

func TestWorkedDurationAccruesOnlyWhileActive(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	staff := &Staff{Status: DutyInactive, LastStatusChange: start}

	staff.TransitionTo(DutyActive, start)
	if got := staff.WorkedDuration(start.Add(10 * time.Minute)); got != 10*time.Minute {
		t.Fatalf("worked duration after 10 active minutes = %v, want 10m", got)
	}

	// Break freezes accrual.
	staff.TransitionTo(DutyOnBreak, start.Add(30*time.Minute))
	frozen := staff.WorkedDuration(start.Add(45 * time.Minute))
	if frozen != 30*time.Minute {
		t.Fatalf("worked duration on break = %v, want 30m", frozen)
	}
	if later := staff.WorkedDuration(start.Add(2 * time.Hour)); later != frozen {
		t.Fatalf("worked duration changed while on break: %v != %v", later, frozen)
	}

	// Returning to active resumes accrual from the new mark.
	staff.TransitionTo(DutyActive, start.Add(time.Hour))
	if got := staff.WorkedDuration(start.Add(90 * time.Minute)); got != time.Hour {
		t.Fatalf("worked duration after resuming = %v, want 1h", got)
	}
}

func TestWorkedDurationMonotoneWhileActive(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	staff := &Staff{Status: DutyInactive, LastStatusChange: start}
	staff.TransitionTo(DutyActive, start)

	prev := time.Duration(-1)
	for i := 0; i < 10; i++ {
		now := start.Add(time.Duration(i) * time.Minute)
		got := staff.WorkedDuration(now)
		if got < prev {
			t.Fatalf("worked duration decreased: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestTransitionToInactiveFromBreakAddsNothing(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	staff := &Staff{Status: DutyOnBreak, LastStatusChange: start, AccruedSeconds: 600}

	staff.TransitionTo(DutyInactive, start.Add(20*time.Minute))
	if staff.AccruedSeconds != 600 {
		t.Fatalf("accrued seconds = %d, want 600", staff.AccruedSeconds)
	}
}
