package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/derekprior/leagueseason/internal/league"
)

type memStore struct {
	lines   map[league.PlayerID]league.PlayerStatLine
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{lines: make(map[league.PlayerID]league.PlayerStatLine)}
}

func (m *memStore) PlayerStats(_ context.Context, id league.PlayerID) (league.PlayerStatLine, error) {
	return m.lines[id], nil
}

func (m *memStore) SavePlayerStats(_ context.Context, line league.PlayerStatLine) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lines[line.Player] = line
	return nil
}

var (
	home   = league.TeamIDFromName("Home")
	away   = league.TeamIDFromName("Away")
	alice  = league.NewPlayerID()
	bob    = league.NewPlayerID()
	carlos = league.NewPlayerID()
)

func ev(typ league.EventType, player league.PlayerID, team league.TeamID) league.GameEvent {
	return league.GameEvent{Type: typ, Player: player, Team: team, Minute: 10}
}

func completedGame(events ...league.GameEvent) *league.Game {
	return &league.Game{
		ID:     league.NewGameID(),
		Home:   home,
		Away:   away,
		Status: league.GameCompleted,
		Events: events,
	}
}

func TestRecomputeOnCompletion(t *testing.T) {
	store := newMemStore()
	agg := New(store, zerolog.Nop())
	game := completedGame(
		ev(league.EventGoal, alice, home),
		ev(league.EventGoal, alice, home),
		ev(league.EventAssist, bob, home),
		ev(league.EventGoal, alice, home),
		ev(league.EventAssist, alice, home),
		ev(league.EventYellowCard, carlos, away),
		ev(league.EventOwnGoal, carlos, away),
	)

	if err := agg.RecomputeOnCompletion(context.Background(), game); err != nil {
		t.Fatalf("RecomputeOnCompletion() error: %v", err)
	}

	want := map[league.PlayerID]league.PlayerStatLine{
		alice:  {Player: alice, GamesPlayed: 1, Goals: 3, Assists: 1},
		bob:    {Player: bob, GamesPlayed: 1, Assists: 1},
		carlos: {Player: carlos, GamesPlayed: 1, YellowCards: 1},
	}
	if diff := cmp.Diff(want, store.lines); diff != "" {
		t.Errorf("stat lines mismatch (-want +got):\n%s", diff)
	}
	for _, p := range []league.PlayerID{alice, bob, carlos} {
		if !game.Credited.Has(p) {
			t.Errorf("player %s not credited", p)
		}
	}
}

func TestRecomputeAddsToExistingLines(t *testing.T) {
	store := newMemStore()
	store.lines[alice] = league.PlayerStatLine{Player: alice, GamesPlayed: 4, Goals: 2}
	agg := New(store, zerolog.Nop())

	game := completedGame(ev(league.EventGoal, alice, home))
	if err := agg.RecomputeOnCompletion(context.Background(), game); err != nil {
		t.Fatalf("RecomputeOnCompletion() error: %v", err)
	}

	got := store.lines[alice]
	if got.GamesPlayed != 5 || got.Goals != 3 {
		t.Errorf("alice = %+v, want 5 games 3 goals", got)
	}
}

func TestApplyIncrementalEvent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	agg := New(store, zerolog.Nop())
	game := completedGame(ev(league.EventGoal, alice, home))

	if err := agg.RecomputeOnCompletion(ctx, game); err != nil {
		t.Fatalf("RecomputeOnCompletion() error: %v", err)
	}

	t.Run("already credited player", func(t *testing.T) {
		late := ev(league.EventAssist, alice, home)
		game.Events = append(game.Events, late)
		if err := agg.ApplyIncrementalEvent(ctx, game, late); err != nil {
			t.Fatalf("ApplyIncrementalEvent() error: %v", err)
		}
		got := store.lines[alice]
		if got.GamesPlayed != 1 || got.Goals != 1 || got.Assists != 1 {
			t.Errorf("alice = %+v", got)
		}
	})

	t.Run("first event for player", func(t *testing.T) {
		late := ev(league.EventRedCard, bob, away)
		game.Events = append(game.Events, late)
		if err := agg.ApplyIncrementalEvent(ctx, game, late); err != nil {
			t.Fatalf("ApplyIncrementalEvent() error: %v", err)
		}
		got := store.lines[bob]
		if got.GamesPlayed != 1 || got.RedCards != 1 {
			t.Errorf("bob = %+v", got)
		}

		again := ev(league.EventSubstitution, bob, away)
		game.Events = append(game.Events, again)
		if err := agg.ApplyIncrementalEvent(ctx, game, again); err != nil {
			t.Fatalf("ApplyIncrementalEvent() error: %v", err)
		}
		if got := store.lines[bob]; got.GamesPlayed != 1 {
			t.Errorf("bob games played = %d, want 1", got.GamesPlayed)
		}
	})
}

func TestSaveFailureDoesNotCredit(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	agg := New(store, zerolog.Nop())
	game := completedGame(ev(league.EventGoal, alice, home))

	if err := agg.RecomputeOnCompletion(context.Background(), game); err == nil {
		t.Fatal("expected error")
	}
	if game.Credited.Has(alice) {
		t.Error("player credited despite failed save")
	}
}

func TestTally(t *testing.T) {
	lines := Tally([]league.GameEvent{
		ev(league.EventGoal, bob, home),
		ev(league.EventPenalty, alice, away),
		ev(league.EventGoal, bob, home),
		{Type: league.EventGoal},
	})
	want := []league.PlayerStatLine{
		{Player: bob, Goals: 2},
		{Player: alice},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Tally mismatch (-want +got):\n%s", diff)
	}
}

func TestEventDelta(t *testing.T) {
	cases := map[league.EventType]league.PlayerStatLine{
		league.EventGoal:         {Goals: 1},
		league.EventAssist:       {Assists: 1},
		league.EventYellowCard:   {YellowCards: 1},
		league.EventRedCard:      {RedCards: 1},
		league.EventOwnGoal:      {},
		league.EventSubstitution: {},
		league.EventPenalty:      {},
	}
	for typ, want := range cases {
		if got := EventDelta(league.GameEvent{Type: typ}); got != want {
			t.Errorf("%s: delta = %+v, want %+v", typ, got, want)
		}
	}
}
