package challenge

import (
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

// ActivityAverages holds nullable per-metric averages over a 7-day window.
// A nil field means no activity rows existed in the window.
type ActivityAverages struct {
	Steps         *float64
	Calories      *float64
	ActiveMinutes *float64
	Distance      *float64
}

// MilestoneFromAverages builds a fresh milestone from a 7-day average,
// substituting the metric default whenever the average is missing or below
// the metric floor.
func MilestoneFromAverages(personID uuid.UUID, startDate time.Time, levelGroupID uuid.UUID, avgs ActivityAverages) PersonFitnessMilestone {
	return PersonFitnessMilestone{
		ID:            uuid.New(),
		PersonID:      personID,
		StartDatetime: startDate,
		EndDatetime:   startDate.Add(fitness.DateDelta7D),
		Steps:         int(flooredValue(avgs.Steps, MinSteps, DefaultSteps)),
		Calories:      flooredValue(avgs.Calories, MinCalories, DefaultCalories),
		ActiveMinutes: int(flooredValue(avgs.ActiveMinutes, MinActiveMinutes, DefaultActiveMinutes)),
		Distance:      flooredValue(avgs.Distance, MinDistance, DefaultDistance),
		LevelGroupID:  levelGroupID,
	}
}

// MilestoneFromPredefinedAverage builds a milestone from a caller-supplied
// steps average. No averaging is performed; every other metric takes its
// global default.
func MilestoneFromPredefinedAverage(personID uuid.UUID, startDate time.Time, levelGroupID uuid.UUID, stepsAverage int) PersonFitnessMilestone {
	return PersonFitnessMilestone{
		ID:            uuid.New(),
		PersonID:      personID,
		StartDatetime: startDate,
		EndDatetime:   startDate.Add(fitness.DateDelta7D),
		Steps:         stepsAverage,
		Calories:      DefaultCalories,
		ActiveMinutes: DefaultActiveMinutes,
		Distance:      DefaultDistance,
		LevelGroupID:  levelGroupID,
	}
}

func flooredValue(avg *float64, min, def float64) float64 {
	if avg == nil || *avg < min {
		return def
	}
	return *avg
}
