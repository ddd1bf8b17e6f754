package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/derekprior/leagueseason/internal/config"
	"github.com/derekprior/leagueseason/internal/league"
)

func TestRunInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.yaml")
	if err := runInit(path); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	season, err := cfg.ToSeason()
	if err != nil {
		t.Fatalf("ToSeason: %v", err)
	}
	if len(season.Teams) != 6 || season.Status != league.SeasonRegistration {
		t.Errorf("season = %+v", season)
	}

	if err := runInit(path); err == nil {
		t.Error("expected error when the file already exists")
	}
}

func TestResolveConfigPath(t *testing.T) {
	got, err := resolveConfigPath("custom.yaml")
	if err != nil || got != "custom.yaml" {
		t.Errorf("resolveConfigPath(custom.yaml) = %q, %v", got, err)
	}

	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	os.Chdir(t.TempDir())
	if _, err := resolveConfigPath(""); err == nil {
		t.Error("expected error without a season.yaml")
	}
}

func TestResolveTeam(t *testing.T) {
	season := &league.Season{Teams: []league.Team{
		{ID: league.TeamIDFromName("Angels"), Name: "Angels"},
	}}
	other := league.NewTeamID()

	tests := []struct {
		ref     string
		want    league.TeamID
		wantErr bool
	}{
		{ref: "angels", want: league.TeamIDFromName("Angels")},
		{ref: other.String(), want: other},
		{ref: "Yankees", wantErr: true},
	}
	for _, tt := range tests {
		got, err := resolveTeam(season, tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveTeam(%q) error = %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveTeam(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func writeSeasonFile(t *testing.T, path, id string, teams ...string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "season:\n  id: %q\n  name: Spring\n  start_date: \"2026-04-06\"\n", id)
	b.WriteString("teams:\n")
	for _, name := range teams {
		fmt.Fprintf(&b, "  - name: %s\n", name)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("writing season file: %v", err)
	}
}

func TestGenerateRefusedForActiveSeason(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "season.yaml")
	t.Setenv("SEASON_DB_PATH", filepath.Join(dir, "season.db"))
	t.Setenv("LOG_LEVEL", "error")
	id := league.NewSeasonID().String()

	run := func(fn func(a *app) error) error {
		t.Helper()
		a, err := openApp(configPath)
		if err != nil {
			t.Fatalf("openApp: %v", err)
		}
		defer a.Close()
		return fn(a)
	}

	writeSeasonFile(t, configPath, id, "Angels", "Astros", "Cubs", "Padres")
	if err := run(func(a *app) error { return a.runGenerate() }); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if err := run(func(a *app) error { return a.runSeasonStatus("active") }); err != nil {
		t.Fatalf("season status: %v", err)
	}

	writeSeasonFile(t, configPath, id, "Angels", "Astros", "Cubs", "Padres", "Royals")
	err := run(func(a *app) error { return a.runGenerate() })
	if !errors.Is(err, league.ErrInvalidSeasonState) {
		t.Fatalf("generate on active season: err = %v, want ErrInvalidSeasonState", err)
	}

	run(func(a *app) error {
		season, err := a.storedSeason()
		if err != nil {
			t.Fatalf("storedSeason: %v", err)
		}
		if len(season.Teams) != 4 {
			t.Errorf("stored season has %d teams, want 4", len(season.Teams))
		}
		if season.Standings.Len() != len(season.Teams) {
			t.Errorf("%d standings rows for %d teams", season.Standings.Len(), len(season.Teams))
		}
		return nil
	})
}
