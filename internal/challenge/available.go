package challenge

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

// ConcreteGoal resolves a subgoal against a milestone. Percent goals scale
// the milestone metric for the level's unit; absolute goals pass through.
// Either way the result is rounded to the nearest 10 for a friendly target.
func ConcreteGoal(level Level, subgoal int, milestone PersonFitnessMilestone) int {
	value := float64(subgoal)
	if level.GoalIsPercent {
		value = float64(subgoal) * milestone.ValueForUnit(level.Unit) / 100
	}
	return roundToNearestTen(value)
}

func roundToNearestTen(v float64) int {
	return int(math.Round(v/10)) * 10
}

// BuildCandidates derives the three offered goals from a level's subgoals.
func BuildCandidates(group *ChallengeGroup, level Level, milestone PersonFitnessMilestone) []Candidate {
	subgoals := []int{level.Subgoal1, level.Subgoal2, level.Subgoal3}
	candidates := make([]Candidate, 0, len(subgoals))
	for i, subgoal := range subgoals {
		goal := ConcreteGoal(level, subgoal, milestone)
		bindings := group.stringDict(level, &goal)
		candidates = append(candidates, Candidate{
			Option:        i + 1,
			Goal:          goal,
			Unit:          level.Unit,
			UnitDuration:  level.UnitDuration,
			TotalDuration: level.TotalDuration,
			Text:          RenderFor(group.Kind, level.Unit, PickDesc, bindings),
			LevelID:       level.ID,
		})
	}
	return candidates
}

// ChallengeWindow pins a challenge to the local calendar day boundary:
// start at local midnight expressed in UTC, end one second before the total
// duration elapses. Unknown durations fall back to one week.
func ChallengeWindow(start time.Time, total Duration) (time.Time, time.Time) {
	span, ok := total.Span()
	if !ok {
		span, _ = Duration7D.Span()
	}
	return start, start.Add(span - fitness.DateDelta1S)
}

// BuildAvailableSet assembles the AVAILABLE response from the selected
// level, the reference milestone, and per-member candidate sets.
func BuildAvailableSet(group *ChallengeGroup, level Level, milestone PersonFitnessMilestone, start time.Time, byPerson map[uuid.UUID][]Candidate) AvailableChallengeSet {
	startDatetime, endDatetime := ChallengeWindow(start, level.TotalDuration)
	bindings := group.stringDict(level, nil)
	return AvailableChallengeSet{
		Text:               RenderFor(group.Kind, level.Unit, PickText, bindings),
		Subtext:            RenderFor(group.Kind, level.Unit, PickSubtext, bindings),
		StartDatetime:      startDatetime,
		EndDatetime:        endDatetime,
		TotalDuration:      level.TotalDuration,
		LevelID:            level.ID,
		LevelOrder:         level.Order,
		Candidates:         BuildCandidates(group, level, milestone),
		CandidatesByPerson: byPerson,
	}
}
