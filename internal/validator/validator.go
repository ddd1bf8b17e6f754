package validator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/leagueseason/internal/excel"
	"github.com/derekprior/leagueseason/internal/league"
)

// Violation represents a round robin rule broken by an exported schedule.
type Violation struct {
	Row     int // worksheet row, 0 when the violation is not tied to one row
	Message string
}

// Validate reads a schedule workbook and checks its weeks sheet against a
// single round robin of the season's teams.
func Validate(season *league.Season, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ValidateFile(season, f)
}

// ValidateFile is Validate for an already opened workbook.
func ValidateFile(season *league.Season, f *excelize.File) ([]Violation, error) {
	games, err := readGames(f)
	if err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}

	teams := make([]string, 0, len(season.Teams))
	for _, t := range season.Teams {
		teams = append(teams, t.Name)
	}

	var violations []Violation
	violations = append(violations, checkUnknownTeams(teams, games)...)
	violations = append(violations, checkSelfPairing(games)...)
	violations = append(violations, checkWeekCount(teams, games)...)
	violations = append(violations, checkOncePerWeek(games)...)
	violations = append(violations, checkPairs(teams, games)...)
	return violations, nil
}

type parsedGame struct {
	Row  int
	Week int
	Home string
	Away string
}

func readGames(f *excelize.File) ([]parsedGame, error) {
	rows, err := f.GetRows(excel.WeeksSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", excel.WeeksSheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", excel.WeeksSheet)
	}

	// Header row locates the columns we need
	col := map[string]int{excel.ColWeek: -1, excel.ColHome: -1, excel.ColAway: -1}
	for i, h := range rows[0] {
		if _, ok := col[h]; ok {
			col[h] = i
		}
	}
	for name, i := range col {
		if i < 0 {
			return nil, fmt.Errorf("%s sheet has no %q column", excel.WeeksSheet, name)
		}
	}

	cell := func(row []string, name string) string {
		if i := col[name]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var games []parsedGame
	for i, row := range rows {
		if i == 0 {
			continue
		}
		weekStr := cell(row, excel.ColWeek)
		if weekStr == "" {
			continue
		}
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid week %q", i+1, weekStr)
		}
		games = append(games, parsedGame{
			Row:  i + 1,
			Week: week,
			Home: cell(row, excel.ColHome),
			Away: cell(row, excel.ColAway),
		})
	}

	return games, nil
}

func checkUnknownTeams(teams []string, games []parsedGame) []Violation {
	known := make(map[string]bool, len(teams))
	for _, t := range teams {
		known[t] = true
	}

	var violations []Violation
	for _, g := range games {
		for _, team := range []string{g.Home, g.Away} {
			if !known[team] {
				violations = append(violations, Violation{
					Row:     g.Row,
					Message: fmt.Sprintf("week %d: %q is not a team in this season", g.Week, team),
				})
			}
		}
	}
	return violations
}

func checkSelfPairing(games []parsedGame) []Violation {
	var violations []Violation
	for _, g := range games {
		if g.Home == g.Away {
			violations = append(violations, Violation{
				Row:     g.Row,
				Message: fmt.Sprintf("week %d: %s is paired with itself", g.Week, g.Home),
			})
		}
	}
	return violations
}

// expectedWeeks is the round count of a single round robin: n-1 for an even
// team count, n when a bye is needed.
func expectedWeeks(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func checkWeekCount(teams []string, games []parsedGame) []Violation {
	if len(teams) < 2 {
		return nil
	}

	weeks := make(map[int]bool)
	for _, g := range games {
		weeks[g.Week] = true
	}

	var violations []Violation
	want := expectedWeeks(len(teams))
	if len(weeks) != want {
		violations = append(violations, Violation{
			Message: fmt.Sprintf("schedule has %d weeks, want %d for %d teams", len(weeks), want, len(teams)),
		})
	}

	var numbers []int
	for w := range weeks {
		numbers = append(numbers, w)
	}
	sort.Ints(numbers)
	for i, w := range numbers {
		if w != i+1 {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("week numbers are not consecutive from 1: found week %d where week %d was expected", w, i+1),
			})
			break
		}
	}
	return violations
}

func checkOncePerWeek(games []parsedGame) []Violation {
	type teamWeek struct {
		team string
		week int
	}
	seen := make(map[teamWeek]int)

	var violations []Violation
	for _, g := range games {
		if g.Home == g.Away {
			continue // reported by checkSelfPairing
		}
		for _, team := range []string{g.Home, g.Away} {
			k := teamWeek{team, g.Week}
			if first, ok := seen[k]; ok {
				violations = append(violations, Violation{
					Row:     g.Row,
					Message: fmt.Sprintf("%s plays twice in week %d (rows %d and %d)", team, g.Week, first, g.Row),
				})
				continue
			}
			seen[k] = g.Row
		}
	}
	return violations
}

func checkPairs(teams []string, games []parsedGame) []Violation {
	type pair struct{ a, b string }
	normalize := func(a, b string) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}

	played := make(map[pair][]int)
	for _, g := range games {
		if g.Home == g.Away {
			continue
		}
		k := normalize(g.Home, g.Away)
		played[k] = append(played[k], g.Row)
	}

	var violations []Violation
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			k := normalize(teams[i], teams[j])
			rows := played[k]
			switch {
			case len(rows) == 0:
				violations = append(violations, Violation{
					Message: fmt.Sprintf("%s and %s never play each other", k.a, k.b),
				})
			case len(rows) > 1:
				violations = append(violations, Violation{
					Row:     rows[1],
					Message: fmt.Sprintf("%s and %s play %d times (rows %v)", k.a, k.b, len(rows), rows),
				})
			}
		}
	}
	return violations
}
