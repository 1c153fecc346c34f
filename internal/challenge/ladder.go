package challenge

import "sort"

// Ladder is the ordered progression of Levels within one LevelGroup,
// ranked ascending by Order.
type Ladder struct {
	levels []Level
}

// NewLadder sorts levels by rank. Input order does not matter.
func NewLadder(levels []Level) Ladder {
	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return Ladder{levels: sorted}
}

func (l Ladder) Levels() []Level {
	return l.levels
}

// First returns the lowest-ranked level, for groups with no challenge
// history.
func (l Ladder) First() (Level, error) {
	if len(l.levels) == 0 {
		return Level{}, ErrNotFound
	}
	return l.levels[0], nil
}

// Next returns the level ranked immediately above the given one.
// ErrLadderExhausted marks the terminal rung.
func (l Ladder) Next(current Level) (Level, error) {
	for _, lv := range l.levels {
		if lv.Order > current.Order {
			return lv, nil
		}
	}
	return Level{}, ErrLadderExhausted
}

// SelectLevel picks the level for a group's next challenge: the first rung
// when the group has no prior challenges, otherwise the rung above the
// latest (max end_datetime) challenge's level.
func (l Ladder) SelectLevel(latestChallengeLevel *Level) (Level, error) {
	if latestChallengeLevel == nil {
		return l.First()
	}
	return l.Next(*latestChallengeLevel)
}
