package games

import (
	"fmt"

	"github.com/derekprior/leagueseason/internal/league"
)

// CheckTransition reports whether moving a game from one status to another is
// allowed and whether it is the completion that standings and stats must
// absorb. Leaving completed is refused: aggregates cannot be rolled back.
func CheckTransition(from, to league.GameStatus) (completes bool, err error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", league.ErrInvalidTransition, to)
	}
	if from == to {
		return false, nil
	}
	if from == league.GameCompleted {
		return false, fmt.Errorf("%w: %s -> %s", league.ErrInvalidTransition, from, to)
	}
	return to == league.GameCompleted, nil
}

// ValidateScore rejects negative scores.
func ValidateScore(s league.Score) error {
	if s.Home < 0 || s.Away < 0 {
		return fmt.Errorf("score %d-%d: scores cannot be negative", s.Home, s.Away)
	}
	return nil
}
