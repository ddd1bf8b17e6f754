package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/derekprior/leagueseason/internal/games"
	"github.com/derekprior/leagueseason/internal/league"
	"github.com/derekprior/leagueseason/internal/schedule"
	"github.com/derekprior/leagueseason/internal/standings"
	"github.com/derekprior/leagueseason/internal/stats"
	"github.com/derekprior/leagueseason/internal/strategy"
)

// Store is the persistence the service works against. Lookups of missing
// records return an error wrapping league.ErrNotFound.
//
// RunInTx runs fn in a transaction carried by the context passed to fn; every
// store call made with that context joins it.
type Store interface {
	Season(ctx context.Context, id league.SeasonID) (*league.Season, error)
	SaveSeason(ctx context.Context, season *league.Season) error
	SaveWeeks(ctx context.Context, id league.SeasonID, weeks []league.Week) error
	SaveStandings(ctx context.Context, id league.SeasonID, s *league.Standings) error

	Game(ctx context.Context, id league.GameID) (*league.Game, error)
	SeasonGames(ctx context.Context, id league.SeasonID) ([]*league.Game, error)
	CreateGame(ctx context.Context, game *league.Game) error
	SaveGame(ctx context.Context, game *league.Game) error
	DeleteSeasonGames(ctx context.Context, id league.SeasonID) (int, error)

	stats.Store

	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates schedule generation, game transitions and event
// recording against a Store.
type Service struct {
	store    Store
	strategy strategy.Strategy
	logger   zerolog.Logger
}

func New(store Store, strat strategy.Strategy, logger zerolog.Logger) *Service {
	return &Service{store: store, strategy: strat, logger: logger}
}

// RegisterSeason validates and saves a season definition.
func (s *Service) RegisterSeason(ctx context.Context, season *league.Season) error {
	if !season.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", league.ErrInvalidSeasonState, season.Status)
	}
	if err := schedule.ValidateSeasonDates(season.StartDate, season.EndDate); err != nil {
		return err
	}
	return s.store.SaveSeason(ctx, season)
}

// SetSeasonStatus changes a season's lifecycle status.
func (s *Service) SetSeasonStatus(ctx context.Context, id league.SeasonID, status league.SeasonStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", league.ErrInvalidSeasonState, status)
	}
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		season, err := s.store.Season(ctx, id)
		if err != nil {
			return err
		}
		season.Status = status
		return s.store.SaveSeason(ctx, season)
	})
}

// GenerateSchedule builds a fresh round robin for the season, replacing any
// existing games, weeks and standings. Active seasons are refused.
func (s *Service) GenerateSchedule(ctx context.Context, id league.SeasonID) (*schedule.Plan, error) {
	var plan *schedule.Plan
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.generate(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logGenerated(id, plan)
	return plan, nil
}

// ScheduleSeason saves season and generates its schedule in one transaction.
// A season already stored keeps its stored status. When generation is refused
// nothing is written, so the stored teams still match the standings.
func (s *Service) ScheduleSeason(ctx context.Context, season *league.Season) (*schedule.Plan, error) {
	incoming := *season
	var plan *schedule.Plan
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.Season(ctx, incoming.ID)
		switch {
		case err == nil:
			incoming.Status = existing.Status
		case !errors.Is(err, league.ErrNotFound):
			return err
		}
		if incoming.Status == league.SeasonActive {
			return fmt.Errorf("%w: cannot regenerate an active season", league.ErrInvalidSeasonState)
		}

		if err := s.RegisterSeason(ctx, &incoming); err != nil {
			return fmt.Errorf("registering season: %w", err)
		}
		plan, err = s.generate(ctx, incoming.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logGenerated(incoming.ID, plan)
	return plan, nil
}

// generate does the work of GenerateSchedule inside the caller's transaction.
func (s *Service) generate(ctx context.Context, id league.SeasonID) (*schedule.Plan, error) {
	season, err := s.store.Season(ctx, id)
	if err != nil {
		return nil, err
	}

	rounds, err := s.strategy.GenerateRounds(season.Teams)
	if err != nil {
		return nil, err
	}
	plan, err := schedule.Build(season, rounds)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteSeasonGames(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deleting existing games: %w", err)
	}
	if deleted > 0 {
		s.logger.Warn().
			Str("season_id", id.String()).
			Int("games", deleted).
			Msg("Deleted existing schedule before regenerating")
	}

	ids := make([]league.GameID, 0, len(plan.Games))
	for _, req := range plan.Games {
		game := &league.Game{
			SeasonID:    id,
			Week:        req.Week,
			Home:        req.Home.ID,
			Away:        req.Away.ID,
			Status:      req.Status,
			ScheduledAt: req.ScheduledAt,
			Venue:       req.Venue,
		}
		if err := s.store.CreateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("creating week %d game: %w", req.Week, err)
		}
		ids = append(ids, game.ID)
	}
	if err := plan.Attach(ids); err != nil {
		return nil, err
	}

	if err := s.store.SaveWeeks(ctx, id, plan.Weeks); err != nil {
		return nil, fmt.Errorf("saving weeks: %w", err)
	}
	if err := s.store.SaveStandings(ctx, id, plan.Standings); err != nil {
		return nil, fmt.Errorf("saving standings: %w", err)
	}
	return plan, nil
}

func (s *Service) logGenerated(id league.SeasonID, plan *schedule.Plan) {
	s.logger.Info().
		Str("season_id", id.String()).
		Int("weeks", len(plan.Weeks)).
		Int("games", len(plan.Games)).
		Msg("Schedule generated")
}

// SetWeekCompleted sets the manual completion flag on a week.
func (s *Service) SetWeekCompleted(ctx context.Context, id league.SeasonID, number int, completed bool) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		season, err := s.store.Season(ctx, id)
		if err != nil {
			return err
		}
		if number < 1 || number > len(season.Weeks) {
			return fmt.Errorf("week %d: %w", number, league.ErrNotFound)
		}
		season.Weeks[number-1].Completed = completed
		return s.store.SaveWeeks(ctx, id, season.Weeks)
	})
}

// UpdateGameStatus moves a game to a new status, optionally setting its
// score first. When the move completes the game, standings and player stats
// are updated and the game is marked processed. If that second step fails
// the game stays completed but unprocessed and the error is returned;
// ProcessPending retries it.
func (s *Service) UpdateGameStatus(ctx context.Context, id league.GameID, to league.GameStatus, score *league.Score) (*league.Game, error) {
	var (
		game      *league.Game
		completes bool
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		game, err = s.store.Game(ctx, id)
		if err != nil {
			return err
		}
		completes, err = games.CheckTransition(game.Status, to)
		if err != nil {
			return err
		}
		if score != nil {
			if game.Status == league.GameCompleted {
				return fmt.Errorf("%w: score of a completed game is set by events", league.ErrInvalidTransition)
			}
			if err := games.ValidateScore(*score); err != nil {
				return err
			}
			game.Score = *score
		}
		game.Status = to
		return s.store.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("game_id", id.String()).
		Str("status", string(to)).
		Msg("Game status updated")

	if !completes {
		return game, nil
	}
	processed, err := s.processCompletion(ctx, id)
	if err != nil {
		return game, fmt.Errorf("game %s completed but standings and stats were not updated: %w", id, err)
	}
	return processed, nil
}

// ProcessPending applies standings and stats for completed games of a season
// whose processing never finished. It returns how many games were processed.
func (s *Service) ProcessPending(ctx context.Context, id league.SeasonID) (int, error) {
	all, err := s.store.SeasonGames(ctx, id)
	if err != nil {
		return 0, err
	}

	var (
		processed int
		errs      []error
	)
	for _, g := range all {
		if g.Status != league.GameCompleted || g.StatsProcessed {
			continue
		}
		if _, err := s.processCompletion(ctx, g.ID); err != nil {
			s.logger.Error().Err(err).Str("game_id", g.ID.String()).Msg("Failed to process completed game")
			errs = append(errs, fmt.Errorf("game %s: %w", g.ID, err))
			continue
		}
		processed++
	}
	return processed, errors.Join(errs...)
}

// processCompletion applies the ledger and aggregator for a completed game in
// one transaction. A game already marked processed is left alone.
func (s *Service) processCompletion(ctx context.Context, id league.GameID) (*league.Game, error) {
	var game *league.Game
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		game, err = s.store.Game(ctx, id)
		if err != nil {
			return err
		}
		if game.Status != league.GameCompleted || game.StatsProcessed {
			return nil
		}

		season, err := s.store.Season(ctx, game.SeasonID)
		if err != nil {
			return err
		}
		if err := standings.ApplyCompletion(season.Standings, game); err != nil {
			return err
		}
		if err := s.store.SaveStandings(ctx, season.ID, season.Standings); err != nil {
			return fmt.Errorf("saving standings: %w", err)
		}

		if err := stats.New(s.store, s.logger).RecomputeOnCompletion(ctx, game); err != nil {
			return err
		}

		game.StatsProcessed = true
		return s.store.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// AppendEvent records an event on a game. Second yellow cards are stored as
// red cards and goals update the score. For a game already processed as
// completed the event's player stats are applied straight away; a completed
// game still awaiting processing picks the event up when it is processed.
func (s *Service) AppendEvent(ctx context.Context, id league.GameID, ev league.GameEvent) (league.GameEvent, error) {
	var recorded league.GameEvent
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		game, err := s.store.Game(ctx, id)
		if err != nil {
			return err
		}
		before := game.Score

		recorded, err = games.RecordEvent(game, ev)
		if err != nil {
			return err
		}

		if game.Status == league.GameCompleted && game.StatsProcessed {
			if err := stats.New(s.store, s.logger).ApplyIncrementalEvent(ctx, game, recorded); err != nil {
				return err
			}
			if game.Score != before {
				s.logger.Warn().
					Str("game_id", id.String()).
					Str("event", string(recorded.Type)).
					Msg("Score changed after completion; standings keep the score at completion")
			}
		}
		return s.store.SaveGame(ctx, game)
	})
	if err != nil {
		return league.GameEvent{}, err
	}

	if recorded.Type != ev.Type {
		s.logger.Info().
			Str("game_id", id.String()).
			Str("player_id", recorded.Player.String()).
			Msg("Second yellow card recorded as red card")
	}
	return recorded, nil
}

// Standings returns the season's ranked table.
func (s *Service) Standings(ctx context.Context, id league.SeasonID) ([]standings.Ranked, error) {
	season, err := s.store.Season(ctx, id)
	if err != nil {
		return nil, err
	}
	return standings.Rank(season.Standings.Rows()), nil
}

// Season returns the stored season.
func (s *Service) Season(ctx context.Context, id league.SeasonID) (*league.Season, error) {
	return s.store.Season(ctx, id)
}

// Games returns the season's games ordered by week.
func (s *Service) Games(ctx context.Context, id league.SeasonID) ([]*league.Game, error) {
	return s.store.SeasonGames(ctx, id)
}

// PlayerStats returns a player's cumulative stat line.
func (s *Service) PlayerStats(ctx context.Context, id league.PlayerID) (league.PlayerStatLine, error) {
	return s.store.PlayerStats(ctx, id)
}
