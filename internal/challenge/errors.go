package challenge

import "errors"

var (
	// ErrChallengeConflict rejects a create while a non-completed challenge
	// exists for the group. Callers should re-fetch status, not retry.
	ErrChallengeConflict = errors.New("group already has a non-completed challenge")

	// ErrLadderExhausted means the group's latest challenge sat on the final
	// rung of its ladder, so no next level can be offered.
	ErrLadderExhausted = errors.New("level ladder exhausted")

	// ErrUnsupportedGroup means the group is neither a solo unit nor a
	// caregiver/child dyad.
	ErrUnsupportedGroup = errors.New("group composition is not supported for challenges")

	// ErrInvalidDuration rejects a create whose total duration is not a
	// whole-day code, so the stored duration always matches the window.
	ErrInvalidDuration = errors.New("total duration must be a whole-day code")

	ErrNotFound = errors.New("not found")
)
