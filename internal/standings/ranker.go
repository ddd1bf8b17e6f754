package standings

import (
	"sort"

	"github.com/derekprior/leagueseason/internal/league"
)

// Ranked is a standings row with its 1-based table position.
type Ranked struct {
	league.StandingRow
	Position int
}

// Rank orders rows by points, then goal differential, then wins, all
// descending. Rows tied on all three keep their input order and still get
// distinct positions.
func Rank(rows []league.StandingRow) []Ranked {
	ordered := make([]league.StandingRow, len(rows))
	copy(ordered, rows)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Differential() != b.Differential() {
			return a.Differential() > b.Differential()
		}
		return a.Wins > b.Wins
	})

	ranked := make([]Ranked, len(ordered))
	for i, r := range ordered {
		ranked[i] = Ranked{StandingRow: r, Position: i + 1}
	}
	return ranked
}
