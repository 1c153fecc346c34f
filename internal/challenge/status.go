package challenge

import "time"

// Status of a group's challenge lifecycle.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusRunning   Status = "RUNNING"
	StatusPassed    Status = "PASSED"
)

// DeriveStatus classifies a group from its latest non-completed challenge.
// PASSED is checked before RUNNING so the boundary instant end == now
// resolves to RUNNING, never both.
func DeriveStatus(latest *GroupChallenge, now time.Time) Status {
	if latest == nil || latest.CompletedDatetime != nil {
		return StatusAvailable
	}
	if latest.EndDatetime.Before(now) {
		return StatusPassed
	}
	return StatusRunning
}

// IsRunning reports whether gc has neither ended nor been explicitly
// completed.
func IsRunning(gc GroupChallenge, now time.Time) bool {
	return gc.CompletedDatetime == nil && !gc.EndDatetime.Before(now)
}
