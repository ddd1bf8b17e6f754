package stats

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/derekprior/leagueseason/internal/league"
)

// Store reads and writes player stat lines.
type Store interface {
	PlayerStats(ctx context.Context, id league.PlayerID) (league.PlayerStatLine, error)
	SavePlayerStats(ctx context.Context, line league.PlayerStatLine) error
}

// Aggregator derives player stat lines from game events. A player's
// GamesPlayed moves at most once per game: the game's Credited set records who
// has already been counted, whether events arrive all at once on completion
// or one at a time afterwards.
type Aggregator struct {
	store  Store
	logger zerolog.Logger
}

func New(store Store, logger zerolog.Logger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// RecomputeOnCompletion applies every event of game. Call it once, when the
// game becomes completed.
func (a *Aggregator) RecomputeOnCompletion(ctx context.Context, game *league.Game) error {
	for _, delta := range Tally(game.Events) {
		if err := a.apply(ctx, game, delta); err != nil {
			return err
		}
	}
	return nil
}

// ApplyIncrementalEvent applies one event appended to an already completed game.
func (a *Aggregator) ApplyIncrementalEvent(ctx context.Context, game *league.Game, ev league.GameEvent) error {
	if ev.Player.IsZero() {
		return nil
	}
	delta := EventDelta(ev)
	delta.Player = ev.Player
	return a.apply(ctx, game, delta)
}

func (a *Aggregator) apply(ctx context.Context, game *league.Game, delta league.PlayerStatLine) error {
	if game.Credited == nil {
		game.Credited = make(league.PlayerSet)
	}
	if !game.Credited.Has(delta.Player) {
		delta.GamesPlayed = 1
	}

	line, err := a.store.PlayerStats(ctx, delta.Player)
	if err != nil {
		return fmt.Errorf("loading stats for player %s: %w", delta.Player, err)
	}
	line.Player = delta.Player
	line.GamesPlayed += delta.GamesPlayed
	line.Goals += delta.Goals
	line.Assists += delta.Assists
	line.YellowCards += delta.YellowCards
	line.RedCards += delta.RedCards

	if err := a.store.SavePlayerStats(ctx, line); err != nil {
		return fmt.Errorf("saving stats for player %s: %w", delta.Player, err)
	}
	game.Credited.Add(delta.Player)

	a.logger.Debug().
		Str("game_id", game.ID.String()).
		Str("player_id", delta.Player.String()).
		Int("games_played", line.GamesPlayed).
		Msg("Player stats updated")
	return nil
}

// EventDelta returns the stat change a single event causes for its player.
// Own goals, substitutions and penalties change no player stat.
func EventDelta(ev league.GameEvent) league.PlayerStatLine {
	var d league.PlayerStatLine
	switch ev.Type {
	case league.EventGoal:
		d.Goals = 1
	case league.EventAssist:
		d.Assists = 1
	case league.EventYellowCard:
		d.YellowCards = 1
	case league.EventRedCard:
		d.RedCards = 1
	}
	return d
}

// Tally sums event deltas per player, in order of each player's first event.
// GamesPlayed is left at zero; crediting is the aggregator's job.
func Tally(events []league.GameEvent) []league.PlayerStatLine {
	index := make(map[league.PlayerID]int)
	var lines []league.PlayerStatLine
	for _, ev := range events {
		if ev.Player.IsZero() {
			continue
		}
		i, ok := index[ev.Player]
		if !ok {
			i = len(lines)
			index[ev.Player] = i
			lines = append(lines, league.PlayerStatLine{Player: ev.Player})
		}
		d := EventDelta(ev)
		lines[i].Goals += d.Goals
		lines[i].Assists += d.Assists
		lines[i].YellowCards += d.YellowCards
		lines[i].RedCards += d.RedCards
	}
	return lines
}
