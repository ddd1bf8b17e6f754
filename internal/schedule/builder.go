package schedule

import (
	"fmt"
	"time"

	"github.com/derekprior/leagueseason/internal/league"
	"github.com/derekprior/leagueseason/internal/strategy"
)

// DefaultVenue is the placeholder venue for games that have not been assigned one.
const DefaultVenue = "TBD"

// GameRequest is a pending game the caller should create in the game store.
type GameRequest struct {
	Week        int
	Home        league.Team
	Away        league.Team
	ScheduledAt time.Time
	Venue       string
	Status      league.GameStatus
}

// Plan is the output of Build: the season's weeks, the games to create and
// the seeded standings.
type Plan struct {
	Weeks     []league.Week
	Games     []GameRequest
	Standings *league.Standings
}

// Build turns a pairing table into dated weeks and pending game requests.
// It refuses to run against an active season. Deleting a previous schedule is
// the caller's job.
func Build(season *league.Season, rounds []strategy.Round) (*Plan, error) {
	if season == nil {
		return nil, fmt.Errorf("season is required")
	}
	if season.Status == league.SeasonActive {
		return nil, fmt.Errorf("%w: cannot build a schedule for an active season", league.ErrInvalidSeasonState)
	}
	if len(season.Teams) < 2 {
		return nil, fmt.Errorf("%w: season has %d", league.ErrInsufficientTeams, len(season.Teams))
	}
	if err := ValidateSeasonDates(season.StartDate, season.EndDate); err != nil {
		return nil, err
	}

	members := make(map[league.TeamID]bool, len(season.Teams))
	teamIDs := make([]league.TeamID, 0, len(season.Teams))
	for _, t := range season.Teams {
		members[t.ID] = true
		teamIDs = append(teamIDs, t.ID)
	}

	plan := &Plan{
		Weeks:     make([]league.Week, 0, len(rounds)),
		Standings: league.NewStandings(teamIDs),
	}

	for k, round := range rounds {
		start, end := WeekRange(season.StartDate, k)
		plan.Weeks = append(plan.Weeks, league.Week{
			Number:    k + 1,
			StartDate: start,
			EndDate:   end,
		})

		for _, m := range round.Matchups {
			for _, team := range []league.Team{m.Home, m.Away} {
				if !members[team.ID] {
					return nil, fmt.Errorf("week %d: %w: %s", k+1, league.ErrUnknownTeamInStandings, team.Name)
				}
			}
			plan.Games = append(plan.Games, GameRequest{
				Week:        k + 1,
				Home:        m.Home,
				Away:        m.Away,
				ScheduledAt: Noon(start),
				Venue:       DefaultVenue,
				Status:      league.GamePending,
			})
		}
	}

	if err := ValidateWeeks(plan.Weeks); err != nil {
		return nil, err
	}
	return plan, nil
}

// Attach records the ids the game store assigned to p.Games, in the same
// order, onto the matching weeks.
func (p *Plan) Attach(ids []league.GameID) error {
	if len(ids) != len(p.Games) {
		return fmt.Errorf("got %d game ids for %d requested games", len(ids), len(p.Games))
	}
	for i, req := range p.Games {
		w := &p.Weeks[req.Week-1]
		w.GameIDs = append(w.GameIDs, ids[i])
	}
	return nil
}
