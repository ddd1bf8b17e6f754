package league

import "errors"

var (
	ErrInsufficientTeams      = errors.New("at least two teams are required")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrInvalidSeasonState     = errors.New("invalid season state")
	ErrUnknownTeamInStandings = errors.New("team not in season standings")

	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid game status transition")
	ErrInvalidEvent      = errors.New("invalid game event")
	ErrTeamNotInGame     = errors.New("team is not playing in this game")
)
