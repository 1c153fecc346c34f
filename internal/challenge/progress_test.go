package challenge

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

func dayRow(personID uuid.UUID, date time.Time, steps int) *fitness.ActivityByDay {
	return &fitness.ActivityByDay{
		ID:       uuid.New(),
		PersonID: personID,
		Date:     date,
		Steps:    steps,
	}
}

func threeDayChallenge(groupID uuid.UUID) GroupChallenge {
	start := time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC)
	return GroupChallenge{
		ID:            uuid.New(),
		GroupID:       groupID,
		Duration:      Duration3D,
		StartDatetime: start,
		EndDatetime:   start.AddDate(0, 0, 3).Add(-time.Second),
		LevelID:       uuid.New(),
	}
}

func TestDaySpan(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		total Duration
		want  int
	}{
		{"utc midnight start", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Duration7D, 7},
		{"offset local midnight", time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), Duration7D, 7},
		{"offset three days", time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), Duration3D, 3},
		{"offset one day", time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC), Duration1D, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := ChallengeWindow(tc.start, tc.total)
			gc := GroupChallenge{StartDatetime: start, EndDatetime: end}
			if got := DaySpan(gc); got != tc.want {
				t.Errorf("expected span %d, got %d", tc.want, got)
			}
		})
	}
}

func TestComputeProgressPercentAndAchieved(t *testing.T) {
	personID := uuid.New()
	gc := threeDayChallenge(uuid.New())

	pc := PersonChallenge{
		ID:               uuid.New(),
		PersonID:         personID,
		GroupChallengeID: gc.ID,
		Unit:             UnitSteps,
		UnitGoal:         5000,
		UnitDuration:     Duration1D,
	}

	start := gc.StartDatetime
	series := []*fitness.ActivityByDay{
		dayRow(personID, start, 6000),
		dayRow(personID, start.AddDate(0, 0, 1), 4000),
		nil, // gap-filled day
	}

	results := ComputeProgress(gc, []PersonChallenge{pc}, map[uuid.UUID][]*fitness.ActivityByDay{
		personID: series,
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 person progress, got %d", len(results))
	}

	p := results[0]
	wantProgress := []int{6000, 4000, 0}
	wantPercent := []float64{120.0, 80.0, 0.0}
	wantAchieved := []bool{true, false, false}

	if len(p.Progress) != 3 {
		t.Fatalf("expected 3-day progress array, got %d", len(p.Progress))
	}
	for i := range wantProgress {
		if p.Progress[i] != wantProgress[i] {
			t.Errorf("day %d: expected progress %d, got %d", i, wantProgress[i], p.Progress[i])
		}
		if p.ProgressPercent[i] == nil || *p.ProgressPercent[i] != wantPercent[i] {
			t.Errorf("day %d: expected percent %f, got %v", i, wantPercent[i], p.ProgressPercent[i])
		}
		if p.ProgressAchieved[i] == nil || *p.ProgressAchieved[i] != wantAchieved[i] {
			t.Errorf("day %d: expected achieved %v, got %v", i, wantAchieved[i], p.ProgressAchieved[i])
		}
	}
	if p.TotalProgress != 10000 {
		t.Errorf("expected total progress 10000, got %d", p.TotalProgress)
	}
}

func TestComputeProgressZeroGoalGuard(t *testing.T) {
	personID := uuid.New()
	gc := threeDayChallenge(uuid.New())

	pc := PersonChallenge{
		ID:               uuid.New(),
		PersonID:         personID,
		GroupChallengeID: gc.ID,
		Unit:             UnitSteps,
		UnitGoal:         0,
	}

	series := []*fitness.ActivityByDay{
		dayRow(personID, gc.StartDatetime, 6000),
		nil,
		nil,
	}

	results := ComputeProgress(gc, []PersonChallenge{pc}, map[uuid.UUID][]*fitness.ActivityByDay{
		personID: series,
	})
	p := results[0]

	for i := range p.Progress {
		if p.ProgressPercent[i] != nil {
			t.Errorf("day %d: expected nil percent for zero goal, got %v", i, *p.ProgressPercent[i])
		}
		if p.ProgressAchieved[i] != nil {
			t.Errorf("day %d: expected nil achieved for zero goal, got %v", i, *p.ProgressAchieved[i])
		}
	}
	if p.TotalProgress != 6000 {
		t.Errorf("expected raw total 6000 even with zero goal, got %d", p.TotalProgress)
	}
}

func TestComputeProgressArrayLengthInvariant(t *testing.T) {
	personID := uuid.New()
	start := time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC)
	gc := GroupChallenge{
		ID:            uuid.New(),
		GroupID:       uuid.New(),
		Duration:      Duration7D,
		StartDatetime: start,
		EndDatetime:   start.AddDate(0, 0, 7).Add(-time.Second),
	}
	pc := PersonChallenge{PersonID: personID, GroupChallengeID: gc.ID, Unit: UnitSteps, UnitGoal: 5000}

	// Only one recorded day out of seven.
	series := fitness.FillDailySeries([]fitness.ActivityByDay{
		{PersonID: personID, Date: start.AddDate(0, 0, 2), Steps: 3000},
	}, start, DaySpan(gc))

	results := ComputeProgress(gc, []PersonChallenge{pc}, map[uuid.UUID][]*fitness.ActivityByDay{
		personID: series,
	})
	p := results[0]

	if len(p.Progress) != 7 || len(p.ProgressPercent) != 7 || len(p.ProgressAchieved) != 7 {
		t.Errorf("expected all arrays to span 7 days, got %d/%d/%d",
			len(p.Progress), len(p.ProgressPercent), len(p.ProgressAchieved))
	}
	if p.TotalProgress != 3000 {
		t.Errorf("expected total 3000, got %d", p.TotalProgress)
	}
}

func TestComputeProgressSkipsMembersWithoutChallengeRow(t *testing.T) {
	withRow := uuid.New()
	joinedLater := uuid.New()
	gc := threeDayChallenge(uuid.New())
	pc := PersonChallenge{PersonID: withRow, GroupChallengeID: gc.ID, Unit: UnitSteps, UnitGoal: 1000}

	series := map[uuid.UUID][]*fitness.ActivityByDay{
		withRow:     {nil, nil, nil},
		joinedLater: {nil, nil, nil},
	}

	results := ComputeProgress(gc, []PersonChallenge{pc}, series)
	if len(results) != 1 {
		t.Fatalf("expected member without a challenge row to be skipped, got %d results", len(results))
	}
	if results[0].PersonID != withRow {
		t.Errorf("expected progress for %s, got %s", withRow, results[0].PersonID)
	}
}

func TestComputeProgressPercentRounding(t *testing.T) {
	personID := uuid.New()
	gc := threeDayChallenge(uuid.New())
	pc := PersonChallenge{PersonID: personID, GroupChallengeID: gc.ID, Unit: UnitSteps, UnitGoal: 3000}

	series := []*fitness.ActivityByDay{
		dayRow(personID, gc.StartDatetime, 1000),
		nil,
		nil,
	}

	results := ComputeProgress(gc, []PersonChallenge{pc}, map[uuid.UUID][]*fitness.ActivityByDay{
		personID: series,
	})

	// 1000/3000 = 33.333...%, rounded to 3 decimal places.
	if got := *results[0].ProgressPercent[0]; got != 33.333 {
		t.Errorf("expected 33.333, got %v", got)
	}
}
