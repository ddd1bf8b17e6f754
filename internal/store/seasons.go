package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/derekprior/leagueseason/internal/league"
)

const dateLayout = "2006-01-02"

// Season loads a season with its teams, weeks and standings.
func (s *Store) Season(ctx context.Context, id league.SeasonID) (*league.Season, error) {
	q := s.q(ctx)

	var (
		season     = &league.Season{ID: id}
		start, end sql.NullString
		status     string
	)
	err := q.QueryRowContext(ctx,
		`SELECT name, start_date, end_date, status FROM seasons WHERE id = ?`, id.String(),
	).Scan(&season.Name, &start, &end, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("season %s: %w", id, league.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading season %s: %w", id, err)
	}
	season.Status = league.SeasonStatus(status)
	if season.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if season.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}

	if season.Teams, err = s.seasonTeams(ctx, id); err != nil {
		return nil, err
	}
	if season.Weeks, err = s.weeks(ctx, id); err != nil {
		return nil, err
	}
	if season.Standings, err = s.standings(ctx, id); err != nil {
		return nil, err
	}
	return season, nil
}

// SaveSeason upserts the season record and replaces its team list.
func (s *Store) SaveSeason(ctx context.Context, season *league.Season) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		q := s.q(ctx)
		var end any
		if !season.EndDate.IsZero() {
			end = season.EndDate.Format(dateLayout)
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO seasons (id, name, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				status = excluded.status`,
			season.ID.String(), season.Name, season.StartDate.Format(dateLayout), end, string(season.Status))
		if err != nil {
			return fmt.Errorf("saving season %s: %w", season.ID, err)
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM season_teams WHERE season_id = ?`, season.ID.String()); err != nil {
			return fmt.Errorf("clearing teams: %w", err)
		}
		for i, t := range season.Teams {
			_, err := q.ExecContext(ctx,
				`INSERT INTO season_teams (season_id, team_id, name, position) VALUES (?, ?, ?, ?)`,
				season.ID.String(), t.ID.String(), t.Name, i)
			if err != nil {
				return fmt.Errorf("saving team %q: %w", t.Name, err)
			}
		}
		return nil
	})
}

// SaveWeeks replaces every week of the season along with their game lists.
func (s *Store) SaveWeeks(ctx context.Context, id league.SeasonID, weeks []league.Week) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		q := s.q(ctx)
		if _, err := q.ExecContext(ctx, `DELETE FROM weeks WHERE season_id = ?`, id.String()); err != nil {
			return fmt.Errorf("clearing weeks: %w", err)
		}
		for _, w := range weeks {
			_, err := q.ExecContext(ctx,
				`INSERT INTO weeks (season_id, number, start_date, end_date, completed) VALUES (?, ?, ?, ?, ?)`,
				id.String(), w.Number, w.StartDate.Format(dateLayout), w.EndDate.Format(dateLayout), w.Completed)
			if err != nil {
				return fmt.Errorf("saving week %d: %w", w.Number, err)
			}
			for pos, gameID := range w.GameIDs {
				_, err := q.ExecContext(ctx,
					`INSERT INTO week_games (season_id, week_number, position, game_id) VALUES (?, ?, ?, ?)`,
					id.String(), w.Number, pos, gameID.String())
				if err != nil {
					return fmt.Errorf("saving week %d game %s: %w", w.Number, gameID, err)
				}
			}
		}
		return nil
	})
}

// SaveStandings replaces the season's standings rows.
func (s *Store) SaveStandings(ctx context.Context, id league.SeasonID, st *league.Standings) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		q := s.q(ctx)
		if _, err := q.ExecContext(ctx, `DELETE FROM standings WHERE season_id = ?`, id.String()); err != nil {
			return fmt.Errorf("clearing standings: %w", err)
		}
		for _, r := range st.Rows() {
			_, err := q.ExecContext(ctx, `
				INSERT INTO standings (season_id, team_id, games_played, wins, losses, ties, points_for, points_against, points)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id.String(), r.Team.String(), r.GamesPlayed, r.Wins, r.Losses, r.Ties, r.PointsFor, r.PointsAgainst, r.Points)
			if err != nil {
				return fmt.Errorf("saving standings row for team %s: %w", r.Team, err)
			}
		}
		return nil
	})
}

func (s *Store) seasonTeams(ctx context.Context, id league.SeasonID) ([]league.Team, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT team_id, name FROM season_teams WHERE season_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	defer rows.Close()

	var teams []league.Team
	for rows.Next() {
		var rawID, name string
		if err := rows.Scan(&rawID, &name); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teamID, err := league.ParseTeamID(rawID)
		if err != nil {
			return nil, err
		}
		teams = append(teams, league.Team{ID: teamID, Name: name})
	}
	return teams, rows.Err()
}

func (s *Store) weeks(ctx context.Context, id league.SeasonID) ([]league.Week, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT number, start_date, end_date, completed FROM weeks WHERE season_id = ? ORDER BY number`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading weeks: %w", err)
	}

	var weeks []league.Week
	for rows.Next() {
		var (
			w          league.Week
			start, end string
		)
		if err := rows.Scan(&w.Number, &start, &end, &w.Completed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		if w.StartDate, err = time.Parse(dateLayout, start); err != nil {
			rows.Close()
			return nil, fmt.Errorf("week %d start: %w", w.Number, err)
		}
		if w.EndDate, err = time.Parse(dateLayout, end); err != nil {
			rows.Close()
			return nil, fmt.Errorf("week %d end: %w", w.Number, err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.q(ctx).QueryContext(ctx,
		`SELECT week_number, game_id FROM week_games WHERE season_id = ? ORDER BY week_number, position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading week games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			number int
			rawID  string
		)
		if err := rows.Scan(&number, &rawID); err != nil {
			return nil, fmt.Errorf("scanning week game: %w", err)
		}
		gameID, err := league.ParseGameID(rawID)
		if err != nil {
			return nil, err
		}
		if number >= 1 && number <= len(weeks) {
			weeks[number-1].GameIDs = append(weeks[number-1].GameIDs, gameID)
		}
	}
	return weeks, rows.Err()
}

func (s *Store) standings(ctx context.Context, id league.SeasonID) (*league.Standings, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT st.team_id, st.games_played, st.wins, st.losses, st.ties, st.points_for, st.points_against, st.points
		FROM standings st
		LEFT JOIN season_teams t ON t.season_id = st.season_id AND t.team_id = st.team_id
		WHERE st.season_id = ?
		ORDER BY t.position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading standings: %w", err)
	}
	defer rows.Close()

	st := league.NewStandings(nil)
	for rows.Next() {
		var (
			r     league.StandingRow
			rawID string
		)
		if err := rows.Scan(&rawID, &r.GamesPlayed, &r.Wins, &r.Losses, &r.Ties, &r.PointsFor, &r.PointsAgainst, &r.Points); err != nil {
			return nil, fmt.Errorf("scanning standings row: %w", err)
		}
		if r.Team, err = league.ParseTeamID(rawID); err != nil {
			return nil, err
		}
		st.Put(r)
	}
	return st, rows.Err()
}

func parseDate(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", v.String, err)
	}
	return t, nil
}
