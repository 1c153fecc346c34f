package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

type FitnessService struct {
	db     *pgxpool.Pool
	people *PeopleService
}

func NewFitnessService(db *pgxpool.Pool, peopleService *PeopleService) *FitnessService {
	return &FitnessService{db: db, people: peopleService}
}

// GetDailyActivity returns recorded activity rows for [startDate, endDate],
// ordered by date. Gaps are the caller's concern.
func (s *FitnessService) GetDailyActivity(ctx context.Context, personID uuid.UUID, startDate, endDate time.Time) ([]fitness.ActivityByDay, error) {
	query := `
	SELECT id, person_id, date, steps, calories, active_minutes, distance
	FROM activity_by_day
	WHERE person_id = $1 AND date >= $2 AND date <= $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, personID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var activities []fitness.ActivityByDay
	for rows.Next() {
		var a fitness.ActivityByDay
		err := rows.Scan(&a.ID, &a.PersonID, &a.Date, &a.Steps, &a.Calories, &a.ActiveMinutes, &a.Distance)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// GetActivityAverages computes per-metric averages over [startDate,
// startDate+7d). NULL averages (no rows in the window) come back as nil so
// the milestone calculator can apply its defaults.
func (s *FitnessService) GetActivityAverages(ctx context.Context, personID uuid.UUID, startDate time.Time) (challenge.ActivityAverages, error) {
	query := `
	SELECT AVG(steps), AVG(calories), AVG(active_minutes), AVG(distance)
	FROM activity_by_day
	WHERE person_id = $1 AND date >= $2 AND date < $3
	`

	var avgs challenge.ActivityAverages
	endDate := startDate.Add(fitness.DateDelta7D)
	err := s.db.QueryRow(ctx, query, personID, startDate, endDate).Scan(
		&avgs.Steps,
		&avgs.Calories,
		&avgs.ActiveMinutes,
		&avgs.Distance,
	)
	if err != nil {
		return challenge.ActivityAverages{}, fmt.Errorf("failed to average activity: %w", err)
	}

	return avgs, nil
}

// GetFilledSeries returns a day-indexed series of exactly `days` entries
// starting at startDate, with nil entries for unrecorded days.
func (s *FitnessService) GetFilledSeries(ctx context.Context, personID uuid.UUID, startDate time.Time, days int) ([]*fitness.ActivityByDay, error) {
	endDate := fitness.TruncateToDate(startDate).Add(time.Duration(days-1) * fitness.DateDelta1D)
	activities, err := s.GetDailyActivity(ctx, personID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return fitness.FillDailySeries(activities, startDate, days), nil
}

// GetGroupFitness assembles every member's gap-filled series over
// [startDate, startDate+7d), capped at tomorrow's local date so future days
// never appear. Wearable sync lag shows up as nil days, not errors.
func (s *FitnessService) GetGroupFitness(ctx context.Context, groupID uuid.UUID, startDate time.Time) (*fitness.GroupFitness, error) {
	detail, err := s.people.GetGroupDetail(ctx, groupID)
	if err != nil {
		return nil, err
	}

	days := 7
	tomorrow := fitness.TruncateToDate(time.Now().Local()).Add(fitness.DateDelta1D)
	if capped := fitness.DaysBetween(startDate, tomorrow); capped < days {
		days = capped
	}
	if days < 0 {
		days = 0
	}

	group := &fitness.GroupFitness{
		GroupID: detail.Group.ID,
		Name:    detail.Group.Name,
		Members: make([]fitness.PersonFitness, 0, len(detail.Members)),
	}

	for _, member := range detail.Members {
		series, err := s.GetFilledSeries(ctx, member.Person.ID, startDate, days)
		if err != nil {
			return nil, err
		}
		lastPull, err := s.getLastPullTime(ctx, member.Person.ID)
		if err != nil {
			return nil, err
		}
		group.Members = append(group.Members, fitness.PersonFitness{
			PersonID:     member.Person.ID,
			Name:         member.Person.Name,
			Role:         member.Role,
			LastPullTime: lastPull,
			Activities:   series,
		})
	}

	return group, nil
}

func (s *FitnessService) getLastPullTime(ctx context.Context, personID uuid.UUID) (*int64, error) {
	var lastPull int64
	err := s.db.QueryRow(ctx,
		`SELECT last_pull_time FROM accounts WHERE person_id = $1`, personID).Scan(&lastPull)
	if err != nil {
		// No linked wearable account is a normal state.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last pull time: %w", err)
	}
	return &lastPull, nil
}
