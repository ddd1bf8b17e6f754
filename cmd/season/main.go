package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derekprior/leagueseason/internal/league"
)

const defaultConfigFile = "season.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "season",
		Short: "Round robin season scheduler and standings tracker",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to season file (default: season.yaml in current directory)")

	// withApp resolves the season file and opens the database for a command.
	withApp := func(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(a, cmd, args)
		}
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter season.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the season file")

	seasonCmd := &cobra.Command{
		Use:   "season",
		Short: "Manage the season lifecycle",
	}
	seasonStatusCmd := &cobra.Command{
		Use:          "status <draft|registration|active|completed|cancelled>",
		Short:        "Set the season status",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runSeasonStatus(args[0]) }),
	}
	seasonCmd.AddCommand(seasonStatusCmd)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, export and validate schedules",
	}

	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a round robin schedule for the season",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runGenerate() }),
	}

	var exportPath string
	exportCmd := &cobra.Command{
		Use:          "export",
		Short:        "Export the schedule and standings to an Excel workbook",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runExport(exportPath) }),
	}
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "schedule.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate an exported schedule against round robin rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}
	scheduleCmd.AddCommand(generateCmd, exportCmd, validateCmd)

	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Manage weeks",
	}
	var reopen bool
	weekCompleteCmd := &cobra.Command{
		Use:          "complete <number>",
		Short:        "Mark a week as completed",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runWeekComplete(args[0], !reopen) }),
	}
	weekCompleteCmd.Flags().BoolVar(&reopen, "reopen", false, "Clear the completed flag instead")
	weekCmd.AddCommand(weekCompleteCmd)

	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Record game results and events",
	}

	gameListCmd := &cobra.Command{
		Use:          "list",
		Short:        "List the season's games",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runGameList() }),
	}

	var homeScore, awayScore int
	gameStatusCmd := &cobra.Command{
		Use:          "status <game-id> <status>",
		Short:        "Move a game to a new status, optionally setting the score",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			var score *league.Score
			if cmd.Flags().Changed("home") || cmd.Flags().Changed("away") {
				score = &league.Score{Home: homeScore, Away: awayScore}
			}
			return a.runGameStatus(args[0], args[1], score)
		}),
	}
	gameStatusCmd.Flags().IntVar(&homeScore, "home", 0, "Home score")
	gameStatusCmd.Flags().IntVar(&awayScore, "away", 0, "Away score")

	var ev eventFlags
	gameEventCmd := &cobra.Command{
		Use:          "event <game-id>",
		Short:        "Append an event to a game",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runGameEvent(args[0], ev) }),
	}
	gameEventCmd.Flags().StringVar(&ev.typ, "type", "", "Event type (goal, assist, yellow_card, red_card, substitution, penalty, own_goal)")
	gameEventCmd.Flags().StringVar(&ev.player, "player", "", "Player id")
	gameEventCmd.Flags().StringVar(&ev.team, "team", "", "Team name or id")
	gameEventCmd.Flags().IntVar(&ev.minute, "minute", 0, "Minute of play (0-120)")
	gameEventCmd.Flags().StringVar(&ev.description, "description", "", "Optional description")
	gameEventCmd.MarkFlagRequired("type")
	gameEventCmd.MarkFlagRequired("player")
	gameEventCmd.MarkFlagRequired("team")

	gameProcessCmd := &cobra.Command{
		Use:          "process",
		Short:        "Apply standings and stats for completed games that were not processed",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runProcess() }),
	}
	gameCmd.AddCommand(gameListCmd, gameStatusCmd, gameEventCmd, gameProcessCmd)

	standingsCmd := &cobra.Command{
		Use:          "standings",
		Short:        "Print the ranked standings table",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runStandings() }),
	}

	statsCmd := &cobra.Command{
		Use:          "stats <player-id>",
		Short:        "Print a player's cumulative stats",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         withApp(func(a *app, cmd *cobra.Command, args []string) error { return a.runStats(args[0]) }),
	}

	rootCmd.AddCommand(initCmd, seasonCmd, scheduleCmd, weekCmd, gameCmd, standingsCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
