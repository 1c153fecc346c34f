package challenge

import (
	"testing"
	"time"
)

func TestDeriveStatusAvailable(t *testing.T) {
	now := time.Now()

	if got := DeriveStatus(nil, now); got != StatusAvailable {
		t.Errorf("expected AVAILABLE with no challenge, got %s", got)
	}

	completed := now.Add(-time.Hour)
	gc := &GroupChallenge{
		StartDatetime:     now.Add(-48 * time.Hour),
		EndDatetime:       now.Add(-24 * time.Hour),
		CompletedDatetime: &completed,
	}
	if got := DeriveStatus(gc, now); got != StatusAvailable {
		t.Errorf("expected AVAILABLE after completion, got %s", got)
	}
}

func TestDeriveStatusRunning(t *testing.T) {
	now := time.Now()
	gc := &GroupChallenge{
		StartDatetime: now.Add(-24 * time.Hour),
		EndDatetime:   now.Add(24 * time.Hour),
	}
	if got := DeriveStatus(gc, now); got != StatusRunning {
		t.Errorf("expected RUNNING, got %s", got)
	}
}

func TestDeriveStatusPassed(t *testing.T) {
	now := time.Now()
	gc := &GroupChallenge{
		StartDatetime: now.Add(-8 * 24 * time.Hour),
		EndDatetime:   now.Add(-time.Second),
	}
	if got := DeriveStatus(gc, now); got != StatusPassed {
		t.Errorf("expected PASSED, got %s", got)
	}
}

func TestDeriveStatusBoundaryInstant(t *testing.T) {
	now := time.Now()
	gc := &GroupChallenge{
		StartDatetime: now.Add(-24 * time.Hour),
		EndDatetime:   now,
	}
	// end == now resolves to RUNNING; PASSED needs strictly end < now.
	if got := DeriveStatus(gc, now); got != StatusRunning {
		t.Errorf("expected RUNNING at boundary instant, got %s", got)
	}
}

func TestStatusIsExactlyOne(t *testing.T) {
	now := time.Now()
	cases := []*GroupChallenge{
		nil,
		{EndDatetime: now.Add(time.Hour)},
		{EndDatetime: now.Add(-time.Hour)},
	}
	for i, gc := range cases {
		got := DeriveStatus(gc, now)
		if got != StatusAvailable && got != StatusRunning && got != StatusPassed {
			t.Errorf("case %d: unexpected status %q", i, got)
		}
	}
}

func TestIsRunning(t *testing.T) {
	now := time.Now()
	running := GroupChallenge{EndDatetime: now.Add(time.Hour)}
	if !IsRunning(running, now) {
		t.Error("expected running challenge")
	}

	ended := GroupChallenge{EndDatetime: now.Add(-time.Hour)}
	if IsRunning(ended, now) {
		t.Error("expected ended challenge to not be running")
	}

	done := now
	completed := GroupChallenge{EndDatetime: now.Add(time.Hour), CompletedDatetime: &done}
	if IsRunning(completed, now) {
		t.Error("expected completed challenge to not be running")
	}
}
