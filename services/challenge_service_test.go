package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

type testFixture struct {
	groupID  uuid.UUID
	levelID  uuid.UUID
	personID uuid.UUID
}

// seedSoloGroup inserts one level-group ladder rung and a single-member
// group. Cleanup deletes in dependency order; challenges cascade from the
// group row.
func seedSoloGroup(t *testing.T, pool *pgxpool.Pool) testFixture {
	ctx := context.Background()

	levelGroupID := uuid.New()
	levelID := uuid.New()
	groupID := uuid.New()
	personID := uuid.New()

	queries := []struct {
		sql  string
		args []any
	}{
		{
			`INSERT INTO level_groups (id, name) VALUES ($1, $2)`,
			[]any{levelGroupID, "test-ladder"},
		},
		{
			`INSERT INTO levels (id, level_group_id, rank, name, goal, goal_is_percent, unit, unit_duration, total_duration, subgoal_1, subgoal_2, subgoal_3)
			 VALUES ($1, $2, 1, 'Level 1', 50, TRUE, 'steps', '1d', '7d', 40, 50, 60)`,
			[]any{levelID, levelGroupID},
		},
		{
			`INSERT INTO groups (id, name) VALUES ($1, $2)`,
			[]any{groupID, "test-household"},
		},
		{
			`INSERT INTO people (id, name, birth_date) VALUES ($1, $2, $3)`,
			[]any{personID, "Test Ana", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			`INSERT INTO memberships (id, person_id, group_id, role) VALUES ($1, $2, $3, 'none')`,
			[]any{uuid.New(), personID, groupID},
		},
	}
	for _, q := range queries {
		if _, err := pool.Exec(ctx, q.sql, q.args...); err != nil {
			t.Fatalf("failed to seed test data: %v", err)
		}
	}

	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM people WHERE id = $1`, personID)
		pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
		pool.Exec(ctx, `DELETE FROM level_groups WHERE id = $1`, levelGroupID)
	})

	return testFixture{groupID: groupID, levelID: levelID, personID: personID}
}

func newTestChallengeService(pool *pgxpool.Pool) *ChallengeService {
	peopleService := NewPeopleService(pool)
	fitnessService := NewFitnessService(pool, peopleService)
	return NewChallengeService(pool, peopleService, fitnessService)
}

func testCreateInput(levelID uuid.UUID) challenge.CreateChallengeInput {
	return challenge.CreateChallengeInput{
		Goal:          4000,
		Unit:          challenge.UnitSteps,
		UnitDuration:  challenge.Duration1D,
		TotalDuration: challenge.Duration7D,
		LevelID:       levelID,
	}
}

func TestCreateChallengeConflictGuard(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	fixture := seedSoloGroup(t, pool)
	svc := newTestChallengeService(pool)
	ctx := context.Background()

	first, err := svc.CreateChallenge(ctx, fixture.groupID, testCreateInput(fixture.levelID))
	if err != nil {
		t.Fatalf("failed to create first challenge: %v", err)
	}
	if first.GroupID != fixture.groupID || first.CompletedDatetime != nil {
		t.Error("expected an open challenge for the seeded group")
	}

	// A second create while one is open must be rejected.
	if _, err := svc.CreateChallenge(ctx, fixture.groupID, testCreateInput(fixture.levelID)); !errors.Is(err, challenge.ErrChallengeConflict) {
		t.Errorf("expected ErrChallengeConflict, got %v", err)
	}

	completed, err := svc.SetCompleted(ctx, fixture.groupID)
	if err != nil {
		t.Fatalf("failed to complete challenge: %v", err)
	}
	if completed.ID != first.ID || completed.CompletedDatetime == nil {
		t.Error("expected the open challenge stamped completed")
	}

	// Completion reopens the slot.
	if _, err := svc.CreateChallenge(ctx, fixture.groupID, testCreateInput(fixture.levelID)); err != nil {
		t.Errorf("expected create to succeed after completion, got %v", err)
	}
}

func TestCreateChallengeRejectsSubDayDuration(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	fixture := seedSoloGroup(t, pool)
	svc := newTestChallengeService(pool)

	input := testCreateInput(fixture.levelID)
	input.TotalDuration = challenge.Duration30M

	if _, err := svc.CreateChallenge(context.Background(), fixture.groupID, input); !errors.Is(err, challenge.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration for a 30m total duration, got %v", err)
	}
}

func TestSetCompletedWithoutOpenChallenge(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	fixture := seedSoloGroup(t, pool)
	svc := newTestChallengeService(pool)

	if _, err := svc.SetCompleted(context.Background(), fixture.groupID); !errors.Is(err, challenge.ErrNotFound) {
		t.Errorf("expected ErrNotFound with nothing to complete, got %v", err)
	}
}

func TestGetChallengeViewStatusTransitions(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	fixture := seedSoloGroup(t, pool)
	svc := newTestChallengeService(pool)
	ctx := context.Background()

	view, err := svc.GetChallengeView(ctx, fixture.groupID)
	if err != nil {
		t.Fatalf("failed to get view: %v", err)
	}
	if view.Status != challenge.StatusAvailable || view.Available == nil {
		t.Errorf("expected AVAILABLE view for a fresh group, got %s", view.Status)
	}

	if _, err := svc.CreateChallenge(ctx, fixture.groupID, testCreateInput(fixture.levelID)); err != nil {
		t.Fatalf("failed to create challenge: %v", err)
	}

	view, err = svc.GetChallengeView(ctx, fixture.groupID)
	if err != nil {
		t.Fatalf("failed to get view: %v", err)
	}
	if view.Status != challenge.StatusRunning || view.Running == nil {
		t.Errorf("expected RUNNING view after create, got %s", view.Status)
	}
	if len(view.Running.Progress) != 1 {
		t.Errorf("expected progress for the single member, got %d entries", len(view.Running.Progress))
	}
}
