package games

import (
	"errors"
	"testing"

	"github.com/derekprior/leagueseason/internal/league"
)

var (
	home   = league.TeamIDFromName("Home")
	away   = league.TeamIDFromName("Away")
	player = league.NewPlayerID()
	other  = league.NewPlayerID()
)

func newGame() *league.Game {
	return &league.Game{ID: league.NewGameID(), Home: home, Away: away, Status: league.GameInProgress}
}

func TestRecordEventSecondYellowBecomesRed(t *testing.T) {
	g := newGame()

	first, err := RecordEvent(g, league.GameEvent{Type: league.EventYellowCard, Player: player, Team: home, Minute: 12})
	if err != nil {
		t.Fatalf("RecordEvent() error: %v", err)
	}
	if first.Type != league.EventYellowCard {
		t.Errorf("first card = %s, want yellow_card", first.Type)
	}

	// another player's yellow does not count toward this player
	if _, err := RecordEvent(g, league.GameEvent{Type: league.EventYellowCard, Player: other, Team: away, Minute: 30}); err != nil {
		t.Fatalf("RecordEvent() error: %v", err)
	}

	second, err := RecordEvent(g, league.GameEvent{Type: league.EventYellowCard, Player: player, Team: home, Minute: 70})
	if err != nil {
		t.Fatalf("RecordEvent() error: %v", err)
	}
	if second.Type != league.EventRedCard {
		t.Errorf("second card = %s, want red_card", second.Type)
	}
	if second.Description != SecondYellowDescription {
		t.Errorf("description = %q", second.Description)
	}

	var yellows, reds int
	for _, e := range g.Events {
		if e.Player != player {
			continue
		}
		switch e.Type {
		case league.EventYellowCard:
			yellows++
		case league.EventRedCard:
			reds++
		}
	}
	if yellows != 1 || reds != 1 {
		t.Errorf("stored %d yellow and %d red, want 1 and 1", yellows, reds)
	}
}

func TestConvertCardKeepsCallerDescription(t *testing.T) {
	existing := []league.GameEvent{{Type: league.EventYellowCard, Player: player, Team: home}}
	got := ConvertCard(existing, league.GameEvent{Type: league.EventYellowCard, Player: player, Team: home, Description: "dissent"})
	if got.Type != league.EventRedCard || got.Description != "dissent" {
		t.Errorf("ConvertCard() = %+v", got)
	}
}

func TestRecordEventScore(t *testing.T) {
	g := newGame()
	events := []league.GameEvent{
		{Type: league.EventGoal, Player: player, Team: home, Minute: 5},
		{Type: league.EventGoal, Player: other, Team: away, Minute: 15},
		{Type: league.EventOwnGoal, Player: player, Team: home, Minute: 20},
		{Type: league.EventOwnGoal, Player: other, Team: away, Minute: 25},
		{Type: league.EventAssist, Player: player, Team: home, Minute: 5},
		{Type: league.EventPenalty, Player: player, Team: home, Minute: 60},
	}
	for _, e := range events {
		if _, err := RecordEvent(g, e); err != nil {
			t.Fatalf("RecordEvent(%s) error: %v", e.Type, err)
		}
	}
	if g.Score != (league.Score{Home: 2, Away: 2}) {
		t.Errorf("score = %+v, want 2-2", g.Score)
	}
	if len(g.Events) != len(events) {
		t.Errorf("events = %d, want %d", len(g.Events), len(events))
	}
}

func TestRecordEventValidation(t *testing.T) {
	stranger := league.TeamIDFromName("Stranger")
	cases := []struct {
		name string
		ev   league.GameEvent
		want error
	}{
		{"unknown type", league.GameEvent{Type: "corner", Player: player, Team: home}, league.ErrInvalidEvent},
		{"missing player", league.GameEvent{Type: league.EventGoal, Team: home}, league.ErrInvalidEvent},
		{"negative minute", league.GameEvent{Type: league.EventGoal, Player: player, Team: home, Minute: -1}, league.ErrInvalidEvent},
		{"late minute", league.GameEvent{Type: league.EventGoal, Player: player, Team: home, Minute: 121}, league.ErrInvalidEvent},
		{"team not playing", league.GameEvent{Type: league.EventGoal, Player: player, Team: stranger}, league.ErrTeamNotInGame},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame()
			_, err := RecordEvent(g, tc.ev)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
			if len(g.Events) != 0 || g.Score != (league.Score{}) {
				t.Error("rejected event changed the game")
			}
		})
	}

	g := newGame()
	if _, err := RecordEvent(g, league.GameEvent{Type: league.EventGoal, Player: player, Team: home, Minute: 120}); err != nil {
		t.Errorf("minute 120 rejected: %v", err)
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to  league.GameStatus
		completes bool
		wantErr   bool
	}{
		{league.GamePending, league.GameScheduled, false, false},
		{league.GameInProgress, league.GameCompleted, true, false},
		{league.GamePending, league.GameCompleted, true, false},
		{league.GameCompleted, league.GameCompleted, false, false},
		{league.GameCompleted, league.GameInProgress, false, true},
		{league.GamePending, "finished", false, true},
	}
	for _, tc := range cases {
		completes, err := CheckTransition(tc.from, tc.to)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s -> %s: error = %v, wantErr %v", tc.from, tc.to, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, league.ErrInvalidTransition) {
			t.Errorf("%s -> %s: error = %v, want ErrInvalidTransition", tc.from, tc.to, err)
		}
		if completes != tc.completes {
			t.Errorf("%s -> %s: completes = %v, want %v", tc.from, tc.to, completes, tc.completes)
		}
	}
}

func TestValidateScore(t *testing.T) {
	if err := ValidateScore(league.Score{Home: 0, Away: 3}); err != nil {
		t.Errorf("valid score rejected: %v", err)
	}
	if err := ValidateScore(league.Score{Home: -1}); err == nil {
		t.Error("negative score accepted")
	}
}
