package challenge

// Per-metric floors and defaults for milestone computation. An average that
// is missing or below its floor is replaced by the default, so a single
// low-activity week never produces a degenerate baseline.
const (
	MinSteps     = 1000
	DefaultSteps = 1000

	MinCalories     = 500.0
	DefaultCalories = 1500.0

	MinActiveMinutes     = 10
	DefaultActiveMinutes = 30

	MinDistance     = 0.5
	DefaultDistance = 3.0
)
