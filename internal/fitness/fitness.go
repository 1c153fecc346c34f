package fitness

import (
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/people"
)

const (
	DateDelta1D = 24 * time.Hour
	DateDelta7D = 7 * 24 * time.Hour
	DateDelta1S = time.Second
)

// ActivityByDay is one person's recorded activity on one calendar date.
// Rows are immutable; the sync pipeline owns writes.
type ActivityByDay struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PersonID      uuid.UUID `json:"person_id" db:"person_id"`
	Date          time.Time `json:"date" db:"date"`
	Steps         int       `json:"steps" db:"steps"`
	Calories      float64   `json:"calories" db:"calories"`
	ActiveMinutes int       `json:"active_minutes" db:"active_minutes"`
	Distance      float64   `json:"distance" db:"distance"`
}

// PersonFitness is a gap-filled, day-indexed activity series for one person.
// Days with no recorded activity carry a nil entry.
type PersonFitness struct {
	PersonID     uuid.UUID        `json:"person_id"`
	Name         string           `json:"name"`
	Role         people.Role      `json:"role,omitempty"`
	LastPullTime *int64           `json:"last_pull_time"`
	Activities   []*ActivityByDay `json:"activities"`
}

type GroupFitness struct {
	GroupID uuid.UUID       `json:"group_id"`
	Name    string          `json:"name"`
	Members []PersonFitness `json:"members"`
}

// Account links a Person to their wearable-device account. The sync client
// that populates it lives outside this service.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PersonID     uuid.UUID `json:"person_id" db:"person_id"`
	DeviceUserID string    `json:"device_user_id" db:"device_user_id"`
	LastPullTime int64     `json:"last_pull_time" db:"last_pull_time"`
}

// TruncateToDate drops the clock portion of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// LocalMidnightUTC returns the beginning of today in the server's local
// timezone, expressed in UTC. Challenge windows are pinned to this boundary.
func LocalMidnightUTC(now time.Time) time.Time {
	return TruncateToDate(now.Local()).UTC()
}

// DaysBetween counts whole calendar days from the date of start to the date
// of end, ignoring clock time.
func DaysBetween(start, end time.Time) int {
	s := TruncateToDate(start)
	e := TruncateToDate(end)
	return int(e.Sub(s) / DateDelta1D)
}

// FillDailySeries builds a day-indexed series over [startDate, startDate+days)
// from rows keyed by calendar date. Missing days yield nil entries.
func FillDailySeries(rows []ActivityByDay, startDate time.Time, days int) []*ActivityByDay {
	byDate := make(map[string]*ActivityByDay, len(rows))
	for i := range rows {
		byDate[rows[i].Date.Format("2006-01-02")] = &rows[i]
	}

	series := make([]*ActivityByDay, 0, days)
	day := TruncateToDate(startDate)
	for i := 0; i < days; i++ {
		series = append(series, byDate[day.Format("2006-01-02")])
		day = day.Add(DateDelta1D)
	}
	return series
}
