package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
	"github.com/community-health-tech/social-fitness-server/internal/fitness"
)

const pgUniqueViolation = "23505"

type ChallengeService struct {
	db      *pgxpool.Pool
	people  *PeopleService
	fitness *FitnessService
}

func NewChallengeService(db *pgxpool.Pool, peopleService *PeopleService, fitnessService *FitnessService) *ChallengeService {
	return &ChallengeService{
		db:      db,
		people:  peopleService,
		fitness: fitnessService,
	}
}

// GetChallengeView assembles the single response object for a group:
// its lifecycle status plus the matching available/running/passed payload.
func (s *ChallengeService) GetChallengeView(ctx context.Context, groupID uuid.UUID) (*challenge.ChallengeViewModel, error) {
	open, err := s.getOpenChallenge(ctx, groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	view := &challenge.ChallengeViewModel{Status: challenge.DeriveStatus(open, now)}

	switch view.Status {
	case challenge.StatusAvailable:
		available, err := s.ListAvailable(ctx, groupID, nil, nil)
		if err != nil {
			return nil, err
		}
		view.Available = available
	case challenge.StatusRunning:
		current, err := s.buildCurrentView(ctx, *open, false)
		if err != nil {
			return nil, err
		}
		current.IsCurrentlyRunning = true
		view.Running = current
	case challenge.StatusPassed:
		current, err := s.buildCurrentView(ctx, *open, false)
		if err != nil {
			return nil, err
		}
		view.Passed = current
	}

	return view, nil
}

// ListAvailable computes the three candidate goals for a group, plus a
// per-member candidate set. stepsOverride substitutes a shared predefined
// steps average; overridesByPerson substitutes per-member averages, keyed
// by person ID. Map keys that are not group members are skipped.
func (s *ChallengeService) ListAvailable(ctx context.Context, groupID uuid.UUID, stepsOverride *int, overridesByPerson map[uuid.UUID]int) (*challenge.AvailableChallengeSet, error) {
	members, err := s.people.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	group, err := challenge.ResolveGroup(members)
	if err != nil {
		return nil, err
	}

	levelGroupID, err := s.getDefaultLevelGroup(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startDatetime := fitness.LocalMidnightUTC(now)
	windowStart := startDatetime.Add(-fitness.DateDelta7D)

	reference := group.ReferencePerson()
	milestone, err := s.computeMilestone(ctx, reference.Person.ID, windowStart, levelGroupID, stepsOverride)
	if err != nil {
		return nil, err
	}

	level, err := s.selectLevel(ctx, groupID, levelGroupID)
	if err != nil {
		return nil, err
	}

	byPerson := make(map[uuid.UUID][]challenge.Candidate, len(members))
	for _, member := range members {
		personOverride := stepsOverride
		if overridesByPerson != nil {
			if steps, ok := overridesByPerson[member.Person.ID]; ok {
				personOverride = &steps
			}
		}
		memberMilestone, err := s.computeMilestone(ctx, member.Person.ID, windowStart, levelGroupID, personOverride)
		if err != nil {
			return nil, err
		}
		byPerson[member.Person.ID] = challenge.BuildCandidates(group, level, memberMilestone)
	}
	for personID := range overridesByPerson {
		if _, ok := byPerson[personID]; !ok {
			log.Printf("ListAvailable: override for non-member %s ignored", personID)
		}
	}

	set := challenge.BuildAvailableSet(group, level, milestone, startDatetime, byPerson)
	return &set, nil
}

// CreateChallenge starts a uniform challenge from the caller's chosen
// candidate: one GroupChallenge plus one PersonChallenge per member, all
// carrying the supplied goal. The check-and-create runs in one transaction
// holding the group row lock, backed by the partial unique index on open
// challenges, so concurrent creates cannot both succeed.
func (s *ChallengeService) CreateChallenge(ctx context.Context, groupID uuid.UUID, input challenge.CreateChallengeInput) (*challenge.GroupChallenge, error) {
	members, err := s.people.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	gc, err := s.createGroupChallenge(ctx, groupID, input.TotalDuration, input.LevelID, input.StartDatetimeUTC,
		func(ctx context.Context, tx pgx.Tx, gc challenge.GroupChallenge) error {
			for _, member := range members {
				if err := insertPersonChallenge(ctx, tx, member.Person.ID, gc, input); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return gc, nil
}

// CreateIndividualized starts a challenge with per-member goals. Override
// keys that are not members are skipped with a log line.
func (s *ChallengeService) CreateIndividualized(ctx context.Context, groupID uuid.UUID, input challenge.IndividualizedCreateInput) (*challenge.GroupChallenge, error) {
	members, err := s.people.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberIDs := make(map[uuid.UUID]bool, len(members))
	for _, member := range members {
		memberIDs[member.Person.ID] = true
	}

	gc, err := s.createGroupChallenge(ctx, groupID, input.TotalDuration, input.LevelID, input.StartDatetimeUTC,
		func(ctx context.Context, tx pgx.Tx, gc challenge.GroupChallenge) error {
			for personID, personInput := range input.ChallengesByPerson {
				if !memberIDs[personID] {
					log.Printf("CreateIndividualized: person %s is not a member of group %s, skipping", personID, groupID)
					continue
				}
				if err := insertPersonChallenge(ctx, tx, personID, gc, personInput); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return gc, nil
}

// SetCompleted stamps the group's latest non-completed challenge. This is
// the only terminal transition; nothing else on the row changes.
func (s *ChallengeService) SetCompleted(ctx context.Context, groupID uuid.UUID) (*challenge.GroupChallenge, error) {
	query := `
	UPDATE group_challenges
	SET completed_datetime = NOW()
	WHERE id = (
		SELECT id FROM group_challenges
		WHERE group_id = $1 AND completed_datetime IS NULL
		ORDER BY end_datetime DESC
		LIMIT 1
	)
	RETURNING id, group_id, duration, start_datetime, end_datetime, completed_datetime, level_id
	`

	gc := &challenge.GroupChallenge{}
	err := s.db.QueryRow(ctx, query, groupID).Scan(
		&gc.ID, &gc.GroupID, &gc.Duration, &gc.StartDatetime, &gc.EndDatetime, &gc.CompletedDatetime, &gc.LevelID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no challenge to complete: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to complete challenge: %w", err)
	}

	return gc, nil
}

// BuildNewChallengeView renders the just-created challenge with confirm
// text instead of info text.
func (s *ChallengeService) BuildNewChallengeView(ctx context.Context, gc challenge.GroupChallenge) (*challenge.CurrentChallengeView, error) {
	view, err := s.buildCurrentView(ctx, gc, true)
	if err != nil {
		return nil, err
	}
	view.IsCurrentlyRunning = challenge.IsRunning(gc, time.Now())
	return view, nil
}

// ---------------------------------------------------------------------------
// internals

func (s *ChallengeService) computeMilestone(ctx context.Context, personID uuid.UUID, windowStart time.Time, levelGroupID uuid.UUID, stepsOverride *int) (challenge.PersonFitnessMilestone, error) {
	var milestone challenge.PersonFitnessMilestone
	if stepsOverride != nil {
		milestone = challenge.MilestoneFromPredefinedAverage(personID, windowStart, levelGroupID, *stepsOverride)
	} else {
		avgs, err := s.fitness.GetActivityAverages(ctx, personID, windowStart)
		if err != nil {
			return challenge.PersonFitnessMilestone{}, err
		}
		milestone = challenge.MilestoneFromAverages(personID, windowStart, levelGroupID, avgs)
	}

	if err := s.insertMilestone(ctx, milestone); err != nil {
		return challenge.PersonFitnessMilestone{}, err
	}
	return milestone, nil
}

func (s *ChallengeService) insertMilestone(ctx context.Context, m challenge.PersonFitnessMilestone) error {
	query := `
	INSERT INTO person_fitness_milestones
		(id, person_id, start_datetime, end_datetime, steps, calories, active_minutes, distance, level_group_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Exec(ctx, query,
		m.ID, m.PersonID, m.StartDatetime, m.EndDatetime, m.Steps, m.Calories, m.ActiveMinutes, m.Distance, m.LevelGroupID)
	if err != nil {
		return fmt.Errorf("failed to insert milestone: %w", err)
	}
	return nil
}

// selectLevel picks the ladder's first rung for a group with no history,
// otherwise the rung above the latest challenge's level.
func (s *ChallengeService) selectLevel(ctx context.Context, groupID, levelGroupID uuid.UUID) (challenge.Level, error) {
	ladder, err := s.loadLadder(ctx, levelGroupID)
	if err != nil {
		return challenge.Level{}, err
	}

	latest, err := s.getLatestChallenge(ctx, groupID)
	if err != nil {
		return challenge.Level{}, err
	}
	if latest == nil {
		return ladder.First()
	}

	latestLevel, err := s.getLevel(ctx, latest.LevelID)
	if err != nil {
		return challenge.Level{}, err
	}
	return ladder.Next(latestLevel)
}

func (s *ChallengeService) loadLadder(ctx context.Context, levelGroupID uuid.UUID) (challenge.Ladder, error) {
	query := `
	SELECT id, level_group_id, rank, name, goal, goal_is_percent, unit, unit_duration, total_duration,
	       subgoal_1, subgoal_2, subgoal_3
	FROM levels
	WHERE level_group_id = $1
	ORDER BY rank
	`

	rows, err := s.db.Query(ctx, query, levelGroupID)
	if err != nil {
		return challenge.Ladder{}, fmt.Errorf("failed to load ladder: %w", err)
	}
	defer rows.Close()

	var levels []challenge.Level
	for rows.Next() {
		var lv challenge.Level
		err := rows.Scan(&lv.ID, &lv.LevelGroupID, &lv.Order, &lv.Name, &lv.Goal, &lv.GoalIsPercent,
			&lv.Unit, &lv.UnitDuration, &lv.TotalDuration, &lv.Subgoal1, &lv.Subgoal2, &lv.Subgoal3)
		if err != nil {
			return challenge.Ladder{}, fmt.Errorf("failed to scan level: %w", err)
		}
		levels = append(levels, lv)
	}
	if err := rows.Err(); err != nil {
		return challenge.Ladder{}, err
	}

	return challenge.NewLadder(levels), nil
}

func (s *ChallengeService) getLevel(ctx context.Context, levelID uuid.UUID) (challenge.Level, error) {
	query := `
	SELECT id, level_group_id, rank, name, goal, goal_is_percent, unit, unit_duration, total_duration,
	       subgoal_1, subgoal_2, subgoal_3
	FROM levels
	WHERE id = $1
	`

	var lv challenge.Level
	err := s.db.QueryRow(ctx, query, levelID).Scan(
		&lv.ID, &lv.LevelGroupID, &lv.Order, &lv.Name, &lv.Goal, &lv.GoalIsPercent,
		&lv.Unit, &lv.UnitDuration, &lv.TotalDuration, &lv.Subgoal1, &lv.Subgoal2, &lv.Subgoal3)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return challenge.Level{}, fmt.Errorf("level: %w", challenge.ErrNotFound)
		}
		return challenge.Level{}, fmt.Errorf("failed to get level: %w", err)
	}
	return lv, nil
}

func (s *ChallengeService) getDefaultLevelGroup(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM level_groups ORDER BY created_at LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("level group: %w", challenge.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to get level group: %w", err)
	}
	return id, nil
}

// getOpenChallenge returns the latest challenge with a null
// completed_datetime, or nil when the group has none.
func (s *ChallengeService) getOpenChallenge(ctx context.Context, groupID uuid.UUID) (*challenge.GroupChallenge, error) {
	query := `
	SELECT id, group_id, duration, start_datetime, end_datetime, completed_datetime, level_id
	FROM group_challenges
	WHERE group_id = $1 AND completed_datetime IS NULL
	ORDER BY end_datetime DESC
	LIMIT 1
	`
	return s.queryOneChallenge(ctx, query, groupID)
}

// getLatestChallenge returns the group's challenge with the greatest
// end_datetime regardless of completion, or nil. Ladder progression keys
// off this row.
func (s *ChallengeService) getLatestChallenge(ctx context.Context, groupID uuid.UUID) (*challenge.GroupChallenge, error) {
	query := `
	SELECT id, group_id, duration, start_datetime, end_datetime, completed_datetime, level_id
	FROM group_challenges
	WHERE group_id = $1
	ORDER BY end_datetime DESC
	LIMIT 1
	`
	return s.queryOneChallenge(ctx, query, groupID)
}

func (s *ChallengeService) queryOneChallenge(ctx context.Context, query string, groupID uuid.UUID) (*challenge.GroupChallenge, error) {
	gc := &challenge.GroupChallenge{}
	err := s.db.QueryRow(ctx, query, groupID).Scan(
		&gc.ID, &gc.GroupID, &gc.Duration, &gc.StartDatetime, &gc.EndDatetime, &gc.CompletedDatetime, &gc.LevelID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group challenge: %w", err)
	}
	return gc, nil
}

func (s *ChallengeService) createGroupChallenge(ctx context.Context, groupID uuid.UUID, total challenge.Duration, levelID uuid.UUID, startOverride *time.Time, addMembers func(context.Context, pgx.Tx, challenge.GroupChallenge) error) (*challenge.GroupChallenge, error) {
	if _, ok := total.Span(); !ok {
		return nil, fmt.Errorf("duration %q: %w", total, challenge.ErrInvalidDuration)
	}

	now := time.Now()
	start := fitness.LocalMidnightUTC(now)
	if startOverride != nil {
		start = *startOverride
	}
	startDatetime, endDatetime := challenge.ChallengeWindow(start, total)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent creates for the same group behind the group row
	// lock, then re-check the open-challenge invariant inside the lock.
	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock group: %w", err)
	}

	var hasOpen bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_challenges WHERE group_id = $1 AND completed_datetime IS NULL)`,
		groupID).Scan(&hasOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to check open challenges: %w", err)
	}
	if hasOpen {
		return nil, challenge.ErrChallengeConflict
	}

	gc := challenge.GroupChallenge{
		ID:            uuid.New(),
		GroupID:       groupID,
		Duration:      total,
		StartDatetime: startDatetime,
		EndDatetime:   endDatetime,
		LevelID:       levelID,
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO group_challenges (id, group_id, duration, start_datetime, end_datetime, level_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	`, gc.ID, gc.GroupID, gc.Duration, gc.StartDatetime, gc.EndDatetime, gc.LevelID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, challenge.ErrChallengeConflict
		}
		return nil, fmt.Errorf("failed to insert group challenge: %w", err)
	}

	if err := addMembers(ctx, tx, gc); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, challenge.ErrChallengeConflict
		}
		return nil, fmt.Errorf("failed to commit challenge: %w", err)
	}

	return &gc, nil
}

func insertPersonChallenge(ctx context.Context, tx pgx.Tx, personID uuid.UUID, gc challenge.GroupChallenge, input challenge.CreateChallengeInput) error {
	_, err := tx.Exec(ctx, `
	INSERT INTO person_challenges (id, person_id, group_challenge_id, level_id, unit, unit_goal, unit_duration)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New(), personID, gc.ID, gc.LevelID, input.Unit, input.Goal, input.UnitDuration)
	if err != nil {
		return fmt.Errorf("failed to insert person challenge: %w", err)
	}
	return nil
}

func (s *ChallengeService) getPersonChallenges(ctx context.Context, groupChallengeID uuid.UUID) ([]challenge.PersonChallenge, error) {
	query := `
	SELECT id, person_id, group_challenge_id, level_id, unit, unit_goal, unit_duration
	FROM person_challenges
	WHERE group_challenge_id = $1
	`

	rows, err := s.db.Query(ctx, query, groupChallengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get person challenges: %w", err)
	}
	defer rows.Close()

	var pcs []challenge.PersonChallenge
	for rows.Next() {
		var pc challenge.PersonChallenge
		err := rows.Scan(&pc.ID, &pc.PersonID, &pc.GroupChallengeID, &pc.LevelID, &pc.Unit, &pc.UnitGoal, &pc.UnitDuration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person challenge: %w", err)
		}
		pcs = append(pcs, pc)
	}

	return pcs, rows.Err()
}

func (s *ChallengeService) buildCurrentView(ctx context.Context, gc challenge.GroupChallenge, isNew bool) (*challenge.CurrentChallengeView, error) {
	members, err := s.people.GetMembers(ctx, gc.GroupID)
	if err != nil {
		return nil, err
	}

	group, err := challenge.ResolveGroup(members)
	if err != nil {
		return nil, err
	}

	level, err := s.getLevel(ctx, gc.LevelID)
	if err != nil {
		return nil, err
	}

	personChallenges, err := s.getPersonChallenges(ctx, gc.ID)
	if err != nil {
		return nil, err
	}

	days := challenge.DaySpan(gc)
	seriesByPerson := make(map[uuid.UUID][]*fitness.ActivityByDay, len(members))
	for _, member := range members {
		series, err := s.fitness.GetFilledSeries(ctx, member.Person.ID, gc.StartDatetime, days)
		if err != nil {
			return nil, err
		}
		seriesByPerson[member.Person.ID] = series
	}

	progress := challenge.ComputeProgress(gc, personChallenges, seriesByPerson)

	goal := level.Goal
	if refGoal, ok := goalForPerson(personChallenges, group.ReferencePerson().Person.ID); ok {
		goal = refGoal
	} else if len(personChallenges) > 0 {
		goal = personChallenges[0].UnitGoal
	}

	return &challenge.CurrentChallengeView{
		Text:          group.ChallengeMainText(level, goal, isNew),
		Subtext:       group.ChallengeSecondaryText(level, goal, isNew),
		TotalDuration: gc.Duration,
		StartDatetime: gc.StartDatetime,
		EndDatetime:   gc.EndDatetime,
		LevelID:       level.ID,
		LevelOrder:    level.Order,
		Progress:      progress,
	}, nil
}

func goalForPerson(pcs []challenge.PersonChallenge, personID uuid.UUID) (int, bool) {
	for _, pc := range pcs {
		if pc.PersonID == personID {
			return pc.UnitGoal, true
		}
	}
	return 0, false
}
