package strategy

import (
	"fmt"

	"github.com/derekprior/leagueseason/internal/league"
)

// Matchup represents a single pairing within a round.
type Matchup struct {
	Home league.Team
	Away league.Team
}

// Round is one week's worth of matchups.
type Round struct {
	Number   int
	Matchups []Matchup
	Bye      *league.Team // team sitting out this round, odd team counts only
}

// Strategy generates the pairing table for a season.
type Strategy interface {
	GenerateRounds(teams []league.Team) ([]Round, error)
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case "circle", "round_robin":
		return &CircleMethod{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// CircleMethod generates a single round robin: every team plays every other
// team exactly once. Slot 0 stays fixed while the remaining slots rotate one
// position per round. Odd team counts get a bye slot.
type CircleMethod struct{}

func (s *CircleMethod) GenerateRounds(teams []league.Team) ([]Round, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", league.ErrInsufficientTeams, len(teams))
	}

	seen := make(map[league.TeamID]bool, len(teams))
	slots := make([]*league.Team, 0, len(teams)+1)
	for i := range teams {
		if seen[teams[i].ID] {
			return nil, fmt.Errorf("team %q is registered more than once", teams[i].Name)
		}
		seen[teams[i].ID] = true
		slots = append(slots, &teams[i])
	}
	if len(slots)%2 == 1 {
		slots = append(slots, nil)
	}

	n := len(slots)
	rounds := make([]Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := Round{Number: r + 1, Matchups: make([]Matchup, 0, n/2)}
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			switch {
			case home == nil:
				bye := *away
				round.Bye = &bye
			case away == nil:
				bye := *home
				round.Bye = &bye
			default:
				round.Matchups = append(round.Matchups, Matchup{Home: *home, Away: *away})
			}
		}
		rounds = append(rounds, round)
		rotate(slots)
	}

	return rounds, nil
}

// rotate moves every slot except the first one position to the right; the
// last slot wraps around to position 1.
func rotate(slots []*league.Team) {
	if len(slots) <= 2 {
		return
	}
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}
