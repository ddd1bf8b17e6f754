package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/derekprior/leagueseason/internal/league"
)

func TestWeekRange(t *testing.T) {
	start := time.Date(2024, 2, 26, 18, 30, 0, 0, time.UTC)

	s, e := WeekRange(start, 0)
	if !s.Equal(day(2024, 2, 26)) || !e.Equal(day(2024, 3, 3)) {
		t.Errorf("week 0 = %v..%v", s, e)
	}

	s, e = WeekRange(start, 1)
	if !s.Equal(day(2024, 3, 4)) || !e.Equal(day(2024, 3, 10)) {
		t.Errorf("week 1 = %v..%v", s, e)
	}
}

func TestNoon(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	got := Noon(time.Date(2024, 1, 1, 0, 0, 0, 0, loc))
	if got.Hour() != 12 || got.Location() != loc || got.Day() != 1 {
		t.Errorf("Noon() = %v", got)
	}
}

func TestValidateSeasonDates(t *testing.T) {
	if err := ValidateSeasonDates(day(2024, 1, 1), time.Time{}); err != nil {
		t.Errorf("open-ended season: %v", err)
	}
	if err := ValidateSeasonDates(day(2024, 1, 1), day(2024, 2, 1)); err != nil {
		t.Errorf("valid range: %v", err)
	}
	if err := ValidateSeasonDates(day(2024, 2, 1), day(2024, 1, 1)); !errors.Is(err, league.ErrInvalidDateRange) {
		t.Errorf("end before start: %v", err)
	}
	if err := ValidateSeasonDates(time.Time{}, time.Time{}); !errors.Is(err, league.ErrInvalidDateRange) {
		t.Errorf("missing start: %v", err)
	}
}

func TestValidateWeeks(t *testing.T) {
	ok := []league.Week{
		{Number: 1, StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 7)},
		{Number: 2, StartDate: day(2024, 1, 8), EndDate: day(2024, 1, 14)},
	}
	if err := ValidateWeeks(ok); err != nil {
		t.Errorf("valid weeks: %v", err)
	}

	overlap := []league.Week{
		{Number: 1, StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 7)},
		{Number: 2, StartDate: day(2024, 1, 7), EndDate: day(2024, 1, 14)},
	}
	if err := ValidateWeeks(overlap); !errors.Is(err, league.ErrInvalidDateRange) {
		t.Errorf("overlapping weeks: %v", err)
	}

	inverted := []league.Week{{Number: 1, StartDate: day(2024, 1, 7), EndDate: day(2024, 1, 1)}}
	if err := ValidateWeeks(inverted); !errors.Is(err, league.ErrInvalidDateRange) {
		t.Errorf("inverted week: %v", err)
	}

	gap := []league.Week{{Number: 2, StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 7)}}
	if err := ValidateWeeks(gap); err == nil {
		t.Error("expected error for non-contiguous numbering")
	}
}
