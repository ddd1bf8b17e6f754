package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/derekprior/leagueseason/internal/config"
	"github.com/derekprior/leagueseason/internal/excel"
	"github.com/derekprior/leagueseason/internal/league"
	"github.com/derekprior/leagueseason/internal/logging"
	"github.com/derekprior/leagueseason/internal/service"
	"github.com/derekprior/leagueseason/internal/store"
	"github.com/derekprior/leagueseason/internal/strategy"
	"github.com/derekprior/leagueseason/internal/validator"
)

// app is everything a database-backed command needs.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	season *league.Season // as defined in the season file
	store  *store.Store
	svc    *service.Service
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	season, err := cfg.ToSeason()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	env, err := config.LoadEnv(filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: env.LogLevel, Format: env.LogFormat})
	if err != nil {
		return nil, err
	}

	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(env.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("db_path", env.DBPath).Str("season_id", season.ID.String()).Msg("Database opened")

	return &app{
		ctx:    context.Background(),
		cfg:    cfg,
		season: season,
		store:  st,
		svc:    service.New(st, strat, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) storedSeason() (*league.Season, error) {
	season, err := a.svc.Season(a.ctx, a.season.ID)
	if errors.Is(err, league.ErrNotFound) {
		return nil, fmt.Errorf("season %q has not been scheduled yet; run `season schedule generate` first", a.season.Name)
	}
	return season, err
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	content := fmt.Sprintf(configTemplate, league.NewSeasonID())
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Season Configuration
# ====================
# This file defines a single round robin season: every team plays every
# other team exactly once, one round per 7-day week.

# Season identity and dates. The id ties this file to its database records;
# keep it stable once games have been generated.
season:
  id: "%s"
  name: "Spring League"
  start_date: "2026-04-06"

  # Optional. When set it must be after start_date.
  end_date: "2026-06-28"

  # Initial status: draft, registration, active, completed or cancelled.
  # After the first generate, change it with "season season status".
  # Schedules cannot be regenerated while the season is active.
  status: registration

# Strategy determines how rounds are paired. "circle" (alias "round_robin")
# keeps the first team fixed and rotates the rest; odd team counts get a bye.
strategy: circle

# Teams in seeding order. An id is optional; without one a stable id is
# derived from the name.
teams:
  - name: Angels
  - name: Astros
  - name: Cubs
  - name: Padres
  - name: Royals
  - name: Mariners
`

func (a *app) runSeasonStatus(status string) error {
	if _, err := a.storedSeason(); err != nil {
		return err
	}
	if err := a.svc.SetSeasonStatus(a.ctx, a.season.ID, league.SeasonStatus(status)); err != nil {
		return err
	}
	fmt.Printf("✓ Season %s is now %s\n", a.season.Name, status)
	return nil
}

func (a *app) runGenerate() error {
	fmt.Printf("Scheduling %d teams with the %s strategy...\n", len(a.season.Teams), a.cfg.Strategy)
	plan, err := a.svc.ScheduleSeason(a.ctx, a.season)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d games across %d weeks\n\n", len(plan.Games), len(plan.Weeks))
	byWeek := make(map[int][]string)
	for _, g := range plan.Games {
		byWeek[g.Week] = append(byWeek[g.Week], fmt.Sprintf("%s vs %s", g.Home.Name, g.Away.Name))
	}
	for _, w := range plan.Weeks {
		fmt.Printf("  Week %-3d %s - %s\n", w.Number, w.StartDate.Format("01/02"), w.EndDate.Format("01/02"))
		for _, m := range byWeek[w.Number] {
			fmt.Printf("    %s\n", m)
		}
	}
	return nil
}

func (a *app) runExport(outputPath string) error {
	season, err := a.storedSeason()
	if err != nil {
		return err
	}
	games, err := a.svc.Games(a.ctx, season.ID)
	if err != nil {
		return err
	}
	table, err := a.svc.Standings(a.ctx, season.ID)
	if err != nil {
		return err
	}

	f, err := excel.Generate(season, games, table)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	season, err := cfg.ToSeason()
	if err != nil {
		return err
	}

	violations, err := validator.Validate(season, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	for _, v := range violations {
		if v.Row > 0 {
			fmt.Printf("✗ Row %d: %s\n", v.Row, v.Message)
			continue
		}
		fmt.Printf("✗ %s\n", v.Message)
	}

	fmt.Printf("\nValidation complete: %d rule violations\n", len(violations))
	if len(violations) > 0 {
		return fmt.Errorf("%d rule violations found", len(violations))
	}
	return nil
}

func (a *app) runWeekComplete(number string, completed bool) error {
	n, err := strconv.Atoi(number)
	if err != nil {
		return fmt.Errorf("invalid week number %q", number)
	}
	if err := a.svc.SetWeekCompleted(a.ctx, a.season.ID, n, completed); err != nil {
		return err
	}
	if completed {
		fmt.Printf("✓ Week %d marked completed\n", n)
	} else {
		fmt.Printf("✓ Week %d reopened\n", n)
	}
	return nil
}

func (a *app) runGameList() error {
	season, err := a.storedSeason()
	if err != nil {
		return err
	}
	games, err := a.svc.Games(a.ctx, season.ID)
	if err != nil {
		return err
	}

	fmt.Printf("  %-4s %-36s %-15s %-15s %-12s %s\n", "Week", "Game", "Home", "Away", "Status", "Score")
	for _, g := range games {
		score := ""
		if g.Status == league.GameCompleted || g.Status == league.GameInProgress {
			score = fmt.Sprintf("%d-%d", g.Score.Home, g.Score.Away)
		}
		fmt.Printf("  %-4d %-36s %-15s %-15s %-12s %s\n",
			g.Week, g.ID, season.TeamName(g.Home), season.TeamName(g.Away), g.Status, score)
	}
	return nil
}

func (a *app) runGameStatus(gameID, status string, score *league.Score) error {
	id, err := league.ParseGameID(gameID)
	if err != nil {
		return err
	}
	game, err := a.svc.UpdateGameStatus(a.ctx, id, league.GameStatus(status), score)
	if err != nil {
		if game != nil {
			fmt.Fprintf(os.Stderr, "⚠ Game saved as %s but not processed; run `season game process` to retry\n", game.Status)
		}
		return err
	}
	fmt.Printf("✓ Game %s is %s (%d-%d)\n", game.ID, game.Status, game.Score.Home, game.Score.Away)
	return nil
}

type eventFlags struct {
	typ         string
	player      string
	team        string
	minute      int
	description string
}

func (a *app) runGameEvent(gameID string, flags eventFlags) error {
	id, err := league.ParseGameID(gameID)
	if err != nil {
		return err
	}
	player, err := league.ParsePlayerID(flags.player)
	if err != nil {
		return err
	}
	team, err := resolveTeam(a.season, flags.team)
	if err != nil {
		return err
	}

	recorded, err := a.svc.AppendEvent(a.ctx, id, league.GameEvent{
		Type:        league.EventType(flags.typ),
		Player:      player,
		Team:        team,
		Minute:      flags.minute,
		Description: flags.description,
	})
	if err != nil {
		return err
	}

	if string(recorded.Type) != flags.typ {
		fmt.Printf("⚠ Recorded as %s: %s\n", recorded.Type, recorded.Description)
	}
	fmt.Printf("✓ %s at %d' recorded\n", recorded.Type, recorded.Minute)
	return nil
}

// resolveTeam accepts a team's name (case-insensitive) or id.
func resolveTeam(season *league.Season, ref string) (league.TeamID, error) {
	for _, t := range season.Teams {
		if strings.EqualFold(t.Name, ref) {
			return t.ID, nil
		}
	}
	id, err := league.ParseTeamID(ref)
	if err != nil {
		return league.TeamID{}, fmt.Errorf("unknown team %q", ref)
	}
	return id, nil
}

func (a *app) runProcess() error {
	n, err := a.svc.ProcessPending(a.ctx, a.season.ID)
	if n > 0 {
		fmt.Printf("✓ Processed %d completed games\n", n)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("✓ Nothing to process")
	}
	return nil
}

func (a *app) runStandings() error {
	season, err := a.storedSeason()
	if err != nil {
		return err
	}
	table, err := a.svc.Standings(a.ctx, season.ID)
	if err != nil {
		return err
	}

	fmt.Printf("  %-3s %-20s %3s %3s %3s %3s %4s %4s %5s %4s\n", "#", "Team", "GP", "W", "L", "T", "PF", "PA", "Diff", "Pts")
	for _, r := range table {
		fmt.Printf("  %-3d %-20s %3d %3d %3d %3d %4d %4d %+5d %4d\n",
			r.Position, season.TeamName(r.Team), r.GamesPlayed, r.Wins, r.Losses, r.Ties,
			r.PointsFor, r.PointsAgainst, r.Differential(), r.Points)
	}
	return nil
}

func (a *app) runStats(playerID string) error {
	id, err := league.ParsePlayerID(playerID)
	if err != nil {
		return err
	}
	line, err := a.svc.PlayerStats(a.ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("  Player  %s\n", line.Player)
	fmt.Printf("  Games   %d\n", line.GamesPlayed)
	fmt.Printf("  Goals   %d\n", line.Goals)
	fmt.Printf("  Assists %d\n", line.Assists)
	fmt.Printf("  Yellow  %d\n", line.YellowCards)
	fmt.Printf("  Red     %d\n", line.RedCards)
	return nil
}
