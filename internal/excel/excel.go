package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/leagueseason/internal/league"
	"github.com/derekprior/leagueseason/internal/standings"
)

// Sheet names and the columns of the weeks sheet that the validator reads back.
const (
	WeeksSheet     = "Weeks"
	StandingsSheet = "Standings"

	ColWeek = "Week"
	ColHome = "Home"
	ColAway = "Away"
)

var weekHeaders = []string{ColWeek, "Start", "End", "Date", ColHome, ColAway, "Status", "Score", "Venue"}

// Generate creates a workbook with the week-by-week schedule, the ranked
// standings and one sheet per team.
func Generate(season *league.Season, games []*league.Game, table []standings.Ranked) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := writeWeeksSheet(f, season, games); err != nil {
		return nil, fmt.Errorf("writing weeks sheet: %w", err)
	}

	if err := writeStandingsSheet(f, season, table); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}

	if err := writeTeamSheets(f, season, games); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

type styles struct {
	header int
	cell   int
	center int
}

func newStyles(f *excelize.File) styles {
	var s styles
	s.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.cell, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	s.center, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return s
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}
}

func writeWeeksSheet(f *excelize.File, season *league.Season, games []*league.Game) error {
	sheet := WeeksSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)
	writeHeaders(f, sheet, weekHeaders, st.header)

	weeks := make(map[int]league.Week, len(season.Weeks))
	for _, w := range season.Weeks {
		weeks[w.Number] = w
	}

	ordered := make([]*league.Game, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Week < ordered[j].Week
	})

	for i, g := range ordered {
		row := i + 2
		w := weeks[g.Week]
		values := []any{
			g.Week,
			formatDate(w.StartDate),
			formatDate(w.EndDate),
			g.ScheduledAt.Format("01/02/2006 15:04"),
			season.TeamName(g.Home),
			season.TeamName(g.Away),
			string(g.Status),
			scoreLabel(g),
			g.Venue,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		if st.cell != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), st.center)
			f.SetCellStyle(sheet, cellRef(5, row), cellRef(6, row), st.cell)
		}
	}

	// Set column widths (sized for Arial 16)
	widths := map[string]float64{"A": 10, "B": 16, "C": 16, "D": 24, "E": 28, "F": 28, "G": 16, "H": 10, "I": 16}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Conditional formatting: completed games get a light green fill
	if len(ordered) == 0 {
		return nil
	}
	lastRow := len(ordered) + 1
	greenFill, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#C6EFCE"}},
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	cellRange := fmt.Sprintf("A2:%s%d", colLetter(len(weekHeaders)), lastRow)
	return f.SetConditionalFormat(sheet, cellRange, []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: fmt.Sprintf(`$G2="%s"`, league.GameCompleted),
			Format:   &greenFill,
		},
	})
}

func writeStandingsSheet(f *excelize.File, season *league.Season, table []standings.Ranked) error {
	sheet := StandingsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)
	headers := []string{"Pos", "Team", "GP", "W", "L", "T", "PF", "PA", "Diff", "Pts"}
	writeHeaders(f, sheet, headers, st.header)

	for i, r := range table {
		row := i + 2
		values := []any{
			r.Position, season.TeamName(r.Team),
			r.GamesPlayed, r.Wins, r.Losses, r.Ties,
			r.PointsFor, r.PointsAgainst, r.Differential(), r.Points,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		if st.center != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), st.center)
			f.SetCellStyle(sheet, cellRef(2, row), cellRef(2, row), st.cell)
		}
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 28)
	f.SetColWidth(sheet, "C", colLetter(len(headers)), 10)
	return nil
}

func writeTeamSheets(f *excelize.File, season *league.Season, games []*league.Game) error {
	st := newStyles(f)
	// Sheet1 is deleted once every sheet is written.
	used := map[string]bool{"weeks": true, "standings": true, "sheet1": true}

	for _, team := range season.Teams {
		sheet := sheetName(team.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("team %q: %w", team.Name, err)
		}

		headers := []string{"Week", "Date", "Opponent", "Home/Away", "Status", "Result"}
		writeHeaders(f, sheet, headers, st.header)

		// Collect and sort this team's games
		var mine []*league.Game
		for _, g := range games {
			if g.Involves(team.ID) {
				mine = append(mine, g)
			}
		}
		sort.SliceStable(mine, func(i, j int) bool {
			if mine[i].Week != mine[j].Week {
				return mine[i].Week < mine[j].Week
			}
			return mine[i].ScheduledAt.Before(mine[j].ScheduledAt)
		})

		for i, g := range mine {
			row := i + 2
			opponent, homeAway := g.Away, "Home"
			if g.Away == team.ID {
				opponent, homeAway = g.Home, "Away"
			}
			values := []any{
				g.Week,
				g.ScheduledAt.Format("01/02/2006"),
				season.TeamName(opponent),
				homeAway,
				string(g.Status),
				resultLabel(g, team.ID),
			}
			for col, v := range values {
				f.SetCellValue(sheet, cellRef(col+1, row), v)
			}
			if st.cell != 0 {
				f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), st.cell)
			}
		}

		// Set column widths (sized for Arial 16)
		widths := map[string]float64{"A": 10, "B": 18, "C": 28, "D": 14, "E": 16, "F": 14}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func scoreLabel(g *league.Game) string {
	if g.Status != league.GameCompleted && g.Status != league.GameInProgress {
		return ""
	}
	return fmt.Sprintf("%d-%d", g.Score.Home, g.Score.Away)
}

// resultLabel reports a completed game from team's side, e.g. "W 3-1".
func resultLabel(g *league.Game, team league.TeamID) string {
	if g.Status != league.GameCompleted {
		return ""
	}
	us, them := g.Score.Home, g.Score.Away
	if g.Away == team {
		us, them = them, us
	}
	switch {
	case us > them:
		return fmt.Sprintf("W %d-%d", us, them)
	case us < them:
		return fmt.Sprintf("L %d-%d", us, them)
	default:
		return fmt.Sprintf("T %d-%d", us, them)
	}
}

// sheetName makes a team name usable as a worksheet name: at most 31
// characters, none of []:*?/\, and not already taken. used holds
// lowercased names since Excel compares sheet names case-insensitively.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	clean = truncate(clean, 31)
	if clean == "" {
		clean = "Team"
	}

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(clean, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("01/02/2006")
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
