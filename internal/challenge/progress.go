package challenge

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

// DaySpan counts the days a challenge covers. Windows end one second
// before a day boundary, so the span is exact whatever clock time the
// start carries.
func DaySpan(gc GroupChallenge) int {
	return int(gc.EndDatetime.Add(time.Second).Sub(gc.StartDatetime) / (24 * time.Hour))
}

// ComputeProgress builds day-indexed progress for every member that has
// both a fitness series and a PersonChallenge row. Members without a
// matching row (joined after creation) are skipped. Series are gap-filled
// by the caller, so nil day entries count as zero activity.
func ComputeProgress(gc GroupChallenge, memberChallenges []PersonChallenge, seriesByPerson map[uuid.UUID][]*fitness.ActivityByDay) []PersonProgress {
	byPerson := make(map[uuid.UUID]PersonChallenge, len(memberChallenges))
	for _, pc := range memberChallenges {
		byPerson[pc.PersonID] = pc
	}

	days := DaySpan(gc)
	results := make([]PersonProgress, 0, len(seriesByPerson))
	for personID, series := range seriesByPerson {
		pc, ok := byPerson[personID]
		if !ok {
			continue
		}
		results = append(results, computePersonProgress(pc, series, days))
	}
	return results
}

func computePersonProgress(pc PersonChallenge, series []*fitness.ActivityByDay, days int) PersonProgress {
	progress := make([]int, days)
	percents := make([]*float64, days)
	achieved := make([]*bool, days)

	total := 0
	for day := 0; day < days; day++ {
		value := 0
		if day < len(series) && series[day] != nil {
			value = dayValueForUnit(series[day], pc.Unit)
		}
		progress[day] = value
		total += value

		// Division guard: a goal below 1 leaves percent and achieved
		// undefined rather than zero or false.
		if pc.UnitGoal >= 1 {
			pct := roundTo3(100 * float64(value) / float64(pc.UnitGoal))
			hit := pct >= 100.0
			percents[day] = &pct
			achieved[day] = &hit
		}
	}

	return PersonProgress{
		PersonID:         pc.PersonID,
		Goal:             pc.UnitGoal,
		Unit:             pc.Unit,
		UnitDuration:     pc.UnitDuration,
		Progress:         progress,
		ProgressPercent:  percents,
		ProgressAchieved: achieved,
		TotalProgress:    total,
	}
}

func dayValueForUnit(day *fitness.ActivityByDay, unit Unit) int {
	switch unit {
	case UnitSteps:
		return day.Steps
	case UnitMinutes, UnitMinutesModerate, UnitMinutesVigorous:
		return day.ActiveMinutes
	case UnitDistance:
		return int(day.Distance)
	}
	return 0
}

func roundTo3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
