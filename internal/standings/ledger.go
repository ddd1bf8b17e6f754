package standings

import (
	"fmt"

	"github.com/derekprior/leagueseason/internal/league"
)

// Points awarded per result.
const (
	WinPoints  = 3
	TiePoints  = 1
	LossPoints = 0
)

// ApplyCompletion folds a completed game's final score into the season
// standings. It must be called exactly once per game, when the game moves into
// completed; it does not detect being applied twice.
//
// If either team is missing from the standings nothing is changed and an
// error wrapping league.ErrUnknownTeamInStandings is returned.
func ApplyCompletion(s *league.Standings, game *league.Game) error {
	home, ok := s.Row(game.Home)
	if !ok {
		return fmt.Errorf("game %s: home team %s: %w", game.ID, game.Home, league.ErrUnknownTeamInStandings)
	}
	away, ok := s.Row(game.Away)
	if !ok {
		return fmt.Errorf("game %s: away team %s: %w", game.ID, game.Away, league.ErrUnknownTeamInStandings)
	}

	hs, as := game.Score.Home, game.Score.Away

	home.GamesPlayed++
	away.GamesPlayed++
	home.PointsFor += hs
	home.PointsAgainst += as
	away.PointsFor += as
	away.PointsAgainst += hs

	switch {
	case hs > as:
		record(home, away)
	case as > hs:
		record(away, home)
	default:
		home.Ties++
		away.Ties++
		home.Points += TiePoints
		away.Points += TiePoints
	}
	return nil
}

func record(winner, loser *league.StandingRow) {
	winner.Wins++
	winner.Points += WinPoints
	loser.Losses++
	loser.Points += LossPoints
}

// Totals sums every row. For a consistent ledger Wins == Losses and Ties is even.
func Totals(s *league.Standings) league.StandingRow {
	var t league.StandingRow
	for _, r := range s.Rows() {
		t.GamesPlayed += r.GamesPlayed
		t.Wins += r.Wins
		t.Losses += r.Losses
		t.Ties += r.Ties
		t.PointsFor += r.PointsFor
		t.PointsAgainst += r.PointsAgainst
		t.Points += r.Points
	}
	return t
}
