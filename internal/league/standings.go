package league

// Standings holds exactly one row per registered team, keyed by team id.
// Registration order is kept so reads are deterministic.
type Standings struct {
	rows  map[TeamID]*StandingRow
	order []TeamID
}

// NewStandings returns zeroed rows for teams in the given order.
// Duplicate ids are collapsed to a single row.
func NewStandings(teams []TeamID) *Standings {
	s := &Standings{rows: make(map[TeamID]*StandingRow, len(teams))}
	for _, id := range teams {
		s.Put(StandingRow{Team: id})
	}
	return s
}

// Put inserts or replaces the row for row.Team.
func (s *Standings) Put(row StandingRow) {
	if s.rows == nil {
		s.rows = make(map[TeamID]*StandingRow)
	}
	if existing, ok := s.rows[row.Team]; ok {
		*existing = row
		return
	}
	r := row
	s.rows[row.Team] = &r
	s.order = append(s.order, row.Team)
}

// Row returns the mutable row for team.
func (s *Standings) Row(team TeamID) (*StandingRow, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.rows[team]
	return r, ok
}

// Rows returns a copy of every row in registration order.
func (s *Standings) Rows() []StandingRow {
	if s == nil {
		return nil
	}
	out := make([]StandingRow, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.rows[id])
	}
	return out
}

func (s *Standings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
