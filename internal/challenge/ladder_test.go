package challenge

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func threeRungLadder() Ladder {
	groupID := uuid.New()
	// Deliberately out of order; NewLadder sorts by rank.
	return NewLadder([]Level{
		{ID: uuid.New(), LevelGroupID: groupID, Order: 3, Name: "Level 3"},
		{ID: uuid.New(), LevelGroupID: groupID, Order: 1, Name: "Level 1"},
		{ID: uuid.New(), LevelGroupID: groupID, Order: 2, Name: "Level 2"},
	})
}

func TestLadderFirst(t *testing.T) {
	ladder := threeRungLadder()
	first, err := ladder.First()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Order != 1 {
		t.Errorf("expected rank 1 first, got %d", first.Order)
	}
}

func TestLadderFirstEmpty(t *testing.T) {
	if _, err := NewLadder(nil).First(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty ladder, got %v", err)
	}
}

func TestLadderNext(t *testing.T) {
	ladder := threeRungLadder()
	first, _ := ladder.First()

	second, err := ladder.Next(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Order != 2 {
		t.Errorf("expected rank 2, got %d", second.Order)
	}
}

func TestLadderExhausted(t *testing.T) {
	ladder := threeRungLadder()
	terminal := ladder.Levels()[2]

	if _, err := ladder.Next(terminal); !errors.Is(err, ErrLadderExhausted) {
		t.Errorf("expected ErrLadderExhausted at the final rung, got %v", err)
	}
}

func TestLadderSelectLevel(t *testing.T) {
	ladder := threeRungLadder()

	// No history: first rung.
	level, err := ladder.SelectLevel(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.Order != 1 {
		t.Errorf("expected first rung for fresh group, got rank %d", level.Order)
	}

	// With history: the rung above the latest challenge's level.
	prior := ladder.Levels()[0]
	level, err = ladder.SelectLevel(&prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.Order != 2 {
		t.Errorf("expected rank 2 after rank-1 history, got %d", level.Order)
	}
}
