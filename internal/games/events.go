package games

import (
	"fmt"

	"github.com/derekprior/leagueseason/internal/league"
)

// SecondYellowDescription is used for a converted card when the caller gave none.
const SecondYellowDescription = "Second yellow card (automatic red card)"

const (
	MinMinute = 0
	MaxMinute = 120
)

// ValidateEvent checks ev against the game it is being appended to.
func ValidateEvent(game *league.Game, ev league.GameEvent) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", league.ErrInvalidEvent, ev.Type)
	}
	if ev.Player.IsZero() {
		return fmt.Errorf("%w: player is required", league.ErrInvalidEvent)
	}
	if ev.Minute < MinMinute || ev.Minute > MaxMinute {
		return fmt.Errorf("%w: minute %d outside %d-%d", league.ErrInvalidEvent, ev.Minute, MinMinute, MaxMinute)
	}
	if !game.Involves(ev.Team) {
		return fmt.Errorf("%w: team %s in game %s", league.ErrTeamNotInGame, ev.Team, game.ID)
	}
	return nil
}

// ConvertCard turns a player's second yellow card in a game into a red card.
// Any other event is returned unchanged.
func ConvertCard(existing []league.GameEvent, ev league.GameEvent) league.GameEvent {
	if ev.Type != league.EventYellowCard {
		return ev
	}
	for _, prior := range existing {
		if prior.Player == ev.Player && prior.Type == league.EventYellowCard {
			ev.Type = league.EventRedCard
			if ev.Description == "" {
				ev.Description = SecondYellowDescription
			}
			return ev
		}
	}
	return ev
}

// ApplyScore updates the game score for a goal or own goal. An own goal
// counts for the team opposing ev.Team.
func ApplyScore(game *league.Game, ev league.GameEvent) {
	switch ev.Type {
	case league.EventGoal:
		addGoal(game, ev.Team)
	case league.EventOwnGoal:
		if ev.Team == game.Home {
			addGoal(game, game.Away)
		} else {
			addGoal(game, game.Home)
		}
	}
}

func addGoal(game *league.Game, team league.TeamID) {
	if team == game.Home {
		game.Score.Home++
	} else {
		game.Score.Away++
	}
}

// RecordEvent validates ev, applies card conversion and the score update, and
// appends the stored form of the event to game.Events.
func RecordEvent(game *league.Game, ev league.GameEvent) (league.GameEvent, error) {
	if err := ValidateEvent(game, ev); err != nil {
		return league.GameEvent{}, err
	}
	ev = ConvertCard(game.Events, ev)
	ApplyScore(game, ev)
	game.Events = append(game.Events, ev)
	return ev, nil
}
