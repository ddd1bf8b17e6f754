package schedule

import (
	"fmt"
	"time"

	"github.com/derekprior/leagueseason/internal/league"
)

const daysPerWeek = 7

// WeekRange returns the first and last calendar day of week k (0-based)
// of a season starting on seasonStart.
func WeekRange(seasonStart time.Time, k int) (start, end time.Time) {
	start = truncateDate(seasonStart).AddDate(0, 0, k*daysPerWeek)
	end = start.AddDate(0, 0, daysPerWeek-1)
	return start, end
}

// Noon returns 12:00 local time on the day of t.
func Noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// ValidateSeasonDates checks that a season's end date, when set, falls after
// its start date.
func ValidateSeasonDates(start, end time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("%w: season start date is required", league.ErrInvalidDateRange)
	}
	if !end.IsZero() && !end.After(start) {
		return fmt.Errorf("%w: end date %s must be after start date %s",
			league.ErrInvalidDateRange, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return nil
}

// ValidateWeeks checks that weeks are numbered 1..n, each ends after it starts,
// and no week overlaps the previous one.
func ValidateWeeks(weeks []league.Week) error {
	for i, w := range weeks {
		if w.Number != i+1 {
			return fmt.Errorf("week at index %d is numbered %d", i, w.Number)
		}
		if !w.EndDate.After(w.StartDate) {
			return fmt.Errorf("%w: week %d ends %s before it starts %s", league.ErrInvalidDateRange,
				w.Number, w.EndDate.Format("2006-01-02"), w.StartDate.Format("2006-01-02"))
		}
		if i > 0 && !w.StartDate.After(weeks[i-1].EndDate) {
			return fmt.Errorf("%w: week %d overlaps week %d", league.ErrInvalidDateRange, w.Number, weeks[i-1].Number)
		}
	}
	return nil
}

func truncateDate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}
