package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/derekprior/leagueseason/internal/league"
)

// PlayerStats returns the player's stat line, zeroed if none was recorded yet.
func (s *Store) PlayerStats(ctx context.Context, id league.PlayerID) (league.PlayerStatLine, error) {
	line := league.PlayerStatLine{Player: id}
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT games_played, goals, assists, yellow_cards, red_cards
		FROM player_stats WHERE player_id = ?`, id.String(),
	).Scan(&line.GamesPlayed, &line.Goals, &line.Assists, &line.YellowCards, &line.RedCards)
	if errors.Is(err, sql.ErrNoRows) {
		return line, nil
	}
	if err != nil {
		return league.PlayerStatLine{}, fmt.Errorf("loading stats for player %s: %w", id, err)
	}
	return line, nil
}

// SavePlayerStats upserts a player's stat line.
func (s *Store) SavePlayerStats(ctx context.Context, line league.PlayerStatLine) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO player_stats (player_id, games_played, goals, assists, yellow_cards, red_cards)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			games_played = excluded.games_played,
			goals = excluded.goals,
			assists = excluded.assists,
			yellow_cards = excluded.yellow_cards,
			red_cards = excluded.red_cards`,
		line.Player.String(), line.GamesPlayed, line.Goals, line.Assists, line.YellowCards, line.RedCards)
	if err != nil {
		return fmt.Errorf("saving stats for player %s: %w", line.Player, err)
	}
	return nil
}
