package challenge

import (
	"time"

	"github.com/google/uuid"
)

// Unit of a challenge goal.
type Unit string

const (
	UnitSteps           Unit = "steps"
	UnitMinutes         Unit = "minutes"
	UnitMinutesModerate Unit = "minutes_moderate"
	UnitMinutesVigorous Unit = "minutes_vigorous"
	UnitDistance        Unit = "distance"
)

// Duration codes shared by unit_duration and total_duration.
type Duration string

const (
	Duration30M Duration = "30m"
	Duration1H  Duration = "1h"
	Duration2H  Duration = "2h"
	Duration12H Duration = "12h"
	Duration1D  Duration = "1d"
	Duration2D  Duration = "2d"
	Duration3D  Duration = "3d"
	Duration7D  Duration = "7d"
)

// DurationLabels are the human-readable forms used in narrative text.
var DurationLabels = map[Duration]string{
	Duration30M: "30 minutes",
	Duration1H:  "one hour",
	Duration2H:  "two hours",
	Duration12H: "half-day",
	Duration1D:  "one day",
	Duration2D:  "two days",
	Duration3D:  "three days",
	Duration7D:  "one week",
}

// Span converts a total-duration code into a time span. Only day-scale
// durations are valid for a challenge window.
func (d Duration) Span() (time.Duration, bool) {
	switch d {
	case Duration1D:
		return 24 * time.Hour, true
	case Duration2D:
		return 2 * 24 * time.Hour, true
	case Duration3D:
		return 3 * 24 * time.Hour, true
	case Duration7D:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

type LevelGroup struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Level is one rung of a LevelGroup ladder. Ladders are handled as ordered
// slices ranked by Order; there is no successor pointer.
type Level struct {
	ID            uuid.UUID `json:"id" db:"id"`
	LevelGroupID  uuid.UUID `json:"level_group_id" db:"level_group_id"`
	Order         int       `json:"order" db:"rank"`
	Name          string    `json:"name" db:"name"`
	Goal          int       `json:"goal" db:"goal"`
	GoalIsPercent bool      `json:"goal_is_percent" db:"goal_is_percent"`
	Unit          Unit      `json:"unit" db:"unit"`
	UnitDuration  Duration  `json:"unit_duration" db:"unit_duration"`
	TotalDuration Duration  `json:"total_duration" db:"total_duration"`
	Subgoal1      int       `json:"subgoal_1" db:"subgoal_1"`
	Subgoal2      int       `json:"subgoal_2" db:"subgoal_2"`
	Subgoal3      int       `json:"subgoal_3" db:"subgoal_3"`
}

// PersonFitnessMilestone is an immutable baseline snapshot of a person's
// average daily activity over a 7-day window. A fresh row is computed for
// every challenge-generation request.
type PersonFitnessMilestone struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PersonID      uuid.UUID `json:"person_id" db:"person_id"`
	StartDatetime time.Time `json:"start_datetime" db:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime" db:"end_datetime"`
	Steps         int       `json:"steps" db:"steps"`
	Calories      float64   `json:"calories" db:"calories"`
	ActiveMinutes int       `json:"active_minutes" db:"active_minutes"`
	Distance      float64   `json:"distance" db:"distance"`
	LevelGroupID  uuid.UUID `json:"level_group_id" db:"level_group_id"`
}

// ValueForUnit returns the milestone metric that a Level's unit scales
// against. Moderate and vigorous minutes fall back to total active minutes;
// the wearable feed does not split them.
func (m PersonFitnessMilestone) ValueForUnit(unit Unit) float64 {
	switch unit {
	case UnitSteps:
		return float64(m.Steps)
	case UnitMinutes, UnitMinutesModerate, UnitMinutesVigorous:
		return float64(m.ActiveMinutes)
	case UnitDistance:
		return m.Distance
	}
	return 0
}

// GroupChallenge is one time-boxed challenge instance for a Group.
type GroupChallenge struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	GroupID           uuid.UUID  `json:"group_id" db:"group_id"`
	Duration          Duration   `json:"duration" db:"duration"`
	StartDatetime     time.Time  `json:"start_datetime" db:"start_datetime"`
	EndDatetime       time.Time  `json:"end_datetime" db:"end_datetime"`
	CompletedDatetime *time.Time `json:"completed_datetime" db:"completed_datetime"`
	LevelID           uuid.UUID  `json:"level_id" db:"level_id"`
}

// PersonChallenge fixes one member's concrete goal within a GroupChallenge.
type PersonChallenge struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PersonID         uuid.UUID `json:"person_id" db:"person_id"`
	GroupChallengeID uuid.UUID `json:"group_challenge_id" db:"group_challenge_id"`
	LevelID          uuid.UUID `json:"level_id" db:"level_id"`
	Unit             Unit      `json:"unit" db:"unit"`
	UnitGoal         int       `json:"unit_goal" db:"unit_goal"`
	UnitDuration     Duration  `json:"unit_duration" db:"unit_duration"`
}

// Candidate is one of the three goal options offered to the user.
type Candidate struct {
	Option        int       `json:"option"`
	Goal          int       `json:"goal"`
	Unit          Unit      `json:"unit"`
	UnitDuration  Duration  `json:"unit_duration"`
	TotalDuration Duration  `json:"total_duration"`
	Text          string    `json:"text"`
	LevelID       uuid.UUID `json:"level_id"`
}

// AvailableChallengeSet is the full response for an AVAILABLE group.
type AvailableChallengeSet struct {
	Text               string                    `json:"text"`
	Subtext            string                    `json:"subtext"`
	StartDatetime      time.Time                 `json:"start_datetime"`
	EndDatetime        time.Time                 `json:"end_datetime"`
	TotalDuration      Duration                  `json:"total_duration"`
	LevelID            uuid.UUID                 `json:"level_id"`
	LevelOrder         int                       `json:"level_order"`
	Candidates         []Candidate               `json:"challenges"`
	CandidatesByPerson map[uuid.UUID][]Candidate `json:"challenges_by_person"`
}

// PersonProgress is one member's day-indexed progress against an active
// challenge. Percent and achieved entries are nil when the goal is below 1.
type PersonProgress struct {
	PersonID         uuid.UUID  `json:"person_id"`
	Goal             int        `json:"goal"`
	Unit             Unit       `json:"unit"`
	UnitDuration     Duration   `json:"unit_duration"`
	Progress         []int      `json:"progress"`
	ProgressPercent  []*float64 `json:"progress_percent"`
	ProgressAchieved []*bool    `json:"progress_achieved"`
	TotalProgress    int        `json:"total_progress"`
}

// CurrentChallengeView describes a running or passed challenge.
type CurrentChallengeView struct {
	IsCurrentlyRunning bool             `json:"is_currently_running"`
	Text               string           `json:"text"`
	Subtext            string           `json:"subtext"`
	TotalDuration      Duration         `json:"total_duration"`
	StartDatetime      time.Time        `json:"start_datetime"`
	EndDatetime        time.Time        `json:"end_datetime"`
	LevelID            uuid.UUID        `json:"level_id"`
	LevelOrder         int              `json:"level_order"`
	Progress           []PersonProgress `json:"progress"`
}

// ChallengeViewModel is the single object the API serializes for a group.
type ChallengeViewModel struct {
	Status    Status                 `json:"status"`
	Available *AvailableChallengeSet `json:"available,omitempty"`
	Running   *CurrentChallengeView  `json:"running,omitempty"`
	Passed    *CurrentChallengeView  `json:"passed,omitempty"`
}

// CreateChallengeInput carries the caller's chosen candidate. The concrete
// goal is persisted as supplied, never recomputed.
type CreateChallengeInput struct {
	Goal             int        `json:"goal"`
	Unit             Unit       `json:"unit"`
	UnitDuration     Duration   `json:"unit_duration"`
	TotalDuration    Duration   `json:"total_duration"`
	LevelID          uuid.UUID  `json:"level_id"`
	StartDatetimeUTC *time.Time `json:"start_datetime_utc,omitempty"`
}

// IndividualizedCreateInput carries per-member chosen candidates keyed by
// person ID.
type IndividualizedCreateInput struct {
	TotalDuration      Duration                           `json:"total_duration"`
	LevelID            uuid.UUID                          `json:"level_id"`
	StartDatetimeUTC   *time.Time                         `json:"start_datetime_utc,omitempty"`
	ChallengesByPerson map[uuid.UUID]CreateChallengeInput `json:"challenges_by_person"`
}
