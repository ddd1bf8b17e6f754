package validator

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/leagueseason/internal/excel"
	"github.com/derekprior/leagueseason/internal/league"
	"github.com/derekprior/leagueseason/internal/schedule"
	"github.com/derekprior/leagueseason/internal/standings"
	"github.com/derekprior/leagueseason/internal/strategy"
)

func testSeason(names ...string) *league.Season {
	season := &league.Season{
		ID:        league.NewSeasonID(),
		Name:      "Spring",
		StartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		Status:    league.SeasonRegistration,
	}
	for _, n := range names {
		season.Teams = append(season.Teams, league.Team{ID: league.TeamIDFromName(n), Name: n})
	}
	return season
}

// workbook exports a freshly generated schedule for season.
func workbook(t *testing.T, season *league.Season) *excelize.File {
	t.Helper()
	rounds, err := (&strategy.CircleMethod{}).GenerateRounds(season.Teams)
	if err != nil {
		t.Fatalf("GenerateRounds: %v", err)
	}
	plan, err := schedule.Build(season, rounds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	season.Weeks = plan.Weeks

	var games []*league.Game
	for _, req := range plan.Games {
		games = append(games, &league.Game{
			ID:          league.NewGameID(),
			Week:        req.Week,
			Home:        req.Home.ID,
			Away:        req.Away.ID,
			Status:      req.Status,
			ScheduledAt: req.ScheduledAt,
			Venue:       req.Venue,
		})
	}

	f, err := excel.Generate(season, games, standings.Rank(plan.Standings.Rows()))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return f
}

func TestValidateGeneratedSchedule(t *testing.T) {
	for n := 2; n <= 9; n++ {
		names := []string{"Angels", "Astros", "Cubs", "Padres", "Royals", "Mariners", "Phillies", "Pirates", "Rockies"}[:n]
		season := testSeason(names...)
		f := workbook(t, season)

		path := filepath.Join(t.TempDir(), "schedule.xlsx")
		if err := f.SaveAs(path); err != nil {
			t.Fatalf("SaveAs error: %v", err)
		}

		violations, err := Validate(season, path)
		if err != nil {
			t.Fatalf("%d teams: Validate() error: %v", n, err)
		}
		for _, v := range violations {
			t.Errorf("%d teams: unexpected violation: %+v", n, v)
		}
	}
}

func TestValidateDetectsViolations(t *testing.T) {
	// Four teams: week 1 is Angels-Padres (row 2) and Astros-Cubs (row 3),
	// week 2 is Angels-Cubs (row 4) and Padres-Astros (row 5),
	// week 3 is Angels-Astros (row 6) and Cubs-Padres (row 7).
	tests := []struct {
		name  string
		edits map[string]string
		want  []string
	}{
		{
			name:  "self pairing",
			edits: map[string]string{"F3": "Astros"},
			want:  []string{"Astros is paired with itself", "Astros and Cubs never play"},
		},
		{
			name:  "unknown team",
			edits: map[string]string{"F2": "Yankees"},
			want:  []string{`"Yankees" is not a team in this season`, "Angels and Padres never play"},
		},
		{
			name:  "team twice in a week",
			edits: map[string]string{"A4": "1", "A5": "1"},
			want:  []string{"plays twice in week 1", "schedule has 2 weeks, want 3 for 4 teams"},
		},
		{
			name:  "repeated pair",
			edits: map[string]string{"E7": "Padres", "F7": "Angels"},
			want:  []string{"Angels and Padres play 2 times", "Cubs and Padres never play", "Angels plays twice in week 3"},
		},
		{
			name:  "gap in week numbers",
			edits: map[string]string{"A6": "4", "A7": "4"},
			want:  []string{"found week 4 where week 3 was expected"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season := testSeason("Angels", "Astros", "Cubs", "Padres")
			f := workbook(t, season)
			for cell, v := range tt.edits {
				if err := f.SetCellValue(excel.WeeksSheet, cell, v); err != nil {
					t.Fatalf("SetCellValue: %v", err)
				}
			}

			violations, err := ValidateFile(season, f)
			if err != nil {
				t.Fatalf("ValidateFile() error: %v", err)
			}
			got := violations
			for _, want := range tt.want {
				found := false
				for _, v := range got {
					if strings.Contains(v.Message, want) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("no violation containing %q in %+v", want, got)
				}
			}
		})
	}
}

func TestValidateMissingColumn(t *testing.T) {
	season := testSeason("Angels", "Astros")
	f := workbook(t, season)
	f.SetCellValue(excel.WeeksSheet, "E1", "Host")

	if _, err := ValidateFile(season, f); err == nil {
		t.Error("expected error for missing Home column")
	}
}

func TestValidateMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := ValidateFile(testSeason("Angels", "Astros"), f); err == nil {
		t.Error("expected error for workbook without a weeks sheet")
	}
}

func TestExpectedWeeks(t *testing.T) {
	tests := map[int]int{2: 1, 3: 3, 4: 3, 5: 5, 10: 9}
	for n, want := range tests {
		if got := expectedWeeks(n); got != want {
			t.Errorf("expectedWeeks(%d) = %d, want %d", n, got, want)
		}
	}
}
