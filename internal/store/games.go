package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/derekprior/leagueseason/internal/league"
)

const gameColumns = `id, season_id, week, home_team_id, away_team_id, status, home_score, away_score, scheduled_at, venue, stats_processed`

// Game loads a game with its event log and credited players.
func (s *Store) Game(ctx context.Context, id league.GameID) (*league.Game, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id.String())
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, league.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadGameDetail(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SeasonGames returns every game of the season ordered by week, then creation.
func (s *Store) SeasonGames(ctx context.Context, id league.SeasonID) ([]*league.Game, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE season_id = ? ORDER BY week, rowid`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	var out []*league.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, game)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, game := range out {
		if err := s.loadGameDetail(ctx, game); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateGame inserts a new game, assigning an id when it has none.
func (s *Store) CreateGame(ctx context.Context, game *league.Game) error {
	if game.ID.IsZero() {
		game.ID = league.NewGameID()
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.q(ctx).ExecContext(ctx, `INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			game.ID.String(), game.SeasonID.String(), game.Week, game.Home.String(), game.Away.String(),
			string(game.Status), game.Score.Home, game.Score.Away,
			game.ScheduledAt.Format(time.RFC3339), game.Venue, game.StatsProcessed)
		if err != nil {
			return fmt.Errorf("inserting game %s: %w", game.ID, err)
		}
		return s.saveGameDetail(ctx, game)
	})
}

// SaveGame writes the game's status, score, flags, events and credited players.
func (s *Store) SaveGame(ctx context.Context, game *league.Game) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		res, err := s.q(ctx).ExecContext(ctx, `
			UPDATE games SET
				week = ?, status = ?, home_score = ?, away_score = ?,
				scheduled_at = ?, venue = ?, stats_processed = ?
			WHERE id = ?`,
			game.Week, string(game.Status), game.Score.Home, game.Score.Away,
			game.ScheduledAt.Format(time.RFC3339), game.Venue, game.StatsProcessed, game.ID.String())
		if err != nil {
			return fmt.Errorf("updating game %s: %w", game.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("game %s: %w", game.ID, league.ErrNotFound)
		}
		return s.saveGameDetail(ctx, game)
	})
}

// DeleteSeasonGames removes every game of the season and returns how many
// were deleted.
func (s *Store) DeleteSeasonGames(ctx context.Context, id league.SeasonID) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM games WHERE season_id = ?`, id.String())
	if err != nil {
		return 0, fmt.Errorf("deleting games: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*league.Game, error) {
	var (
		g                                      league.Game
		id, seasonID, home, away, status, when string
	)
	err := row.Scan(&id, &seasonID, &g.Week, &home, &away, &status,
		&g.Score.Home, &g.Score.Away, &when, &g.Venue, &g.StatsProcessed)
	if err != nil {
		return nil, err
	}

	if g.ID, err = league.ParseGameID(id); err != nil {
		return nil, err
	}
	if g.SeasonID, err = league.ParseSeasonID(seasonID); err != nil {
		return nil, err
	}
	if g.Home, err = league.ParseTeamID(home); err != nil {
		return nil, err
	}
	if g.Away, err = league.ParseTeamID(away); err != nil {
		return nil, err
	}
	if g.ScheduledAt, err = time.Parse(time.RFC3339, when); err != nil {
		return nil, fmt.Errorf("game %s scheduled_at: %w", id, err)
	}
	g.Status = league.GameStatus(status)
	g.Credited = make(league.PlayerSet)
	return &g, nil
}

func (s *Store) loadGameDetail(ctx context.Context, game *league.Game) error {
	q := s.q(ctx)

	rows, err := q.QueryContext(ctx,
		`SELECT type, player_id, team_id, minute, description FROM game_events WHERE game_id = ? ORDER BY seq`,
		game.ID.String())
	if err != nil {
		return fmt.Errorf("loading events for game %s: %w", game.ID, err)
	}
	for rows.Next() {
		var (
			ev           league.GameEvent
			typ          string
			player, team string
		)
		if err := rows.Scan(&typ, &player, &team, &ev.Minute, &ev.Description); err != nil {
			rows.Close()
			return fmt.Errorf("scanning event: %w", err)
		}
		ev.Type = league.EventType(typ)
		if ev.Player, err = league.ParsePlayerID(player); err != nil {
			rows.Close()
			return err
		}
		if ev.Team, err = league.ParseTeamID(team); err != nil {
			rows.Close()
			return err
		}
		game.Events = append(game.Events, ev)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `SELECT player_id FROM game_credits WHERE game_id = ?`, game.ID.String())
	if err != nil {
		return fmt.Errorf("loading credits for game %s: %w", game.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scanning credit: %w", err)
		}
		player, err := league.ParsePlayerID(raw)
		if err != nil {
			return err
		}
		game.Credited.Add(player)
	}
	return rows.Err()
}

func (s *Store) saveGameDetail(ctx context.Context, game *league.Game) error {
	q := s.q(ctx)
	id := game.ID.String()

	if _, err := q.ExecContext(ctx, `DELETE FROM game_events WHERE game_id = ?`, id); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}
	for seq, ev := range game.Events {
		_, err := q.ExecContext(ctx, `
			INSERT INTO game_events (game_id, seq, type, player_id, team_id, minute, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, seq, string(ev.Type), ev.Player.String(), ev.Team.String(), ev.Minute, ev.Description)
		if err != nil {
			return fmt.Errorf("saving event %d: %w", seq, err)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM game_credits WHERE game_id = ?`, id); err != nil {
		return fmt.Errorf("clearing credits: %w", err)
	}
	for player := range game.Credited {
		if _, err := q.ExecContext(ctx, `INSERT INTO game_credits (game_id, player_id) VALUES (?, ?)`, id, player.String()); err != nil {
			return fmt.Errorf("saving credit for player %s: %w", player, err)
		}
	}
	return nil
}
