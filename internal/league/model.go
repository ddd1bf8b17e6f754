package league

import "time"

// SeasonStatus tracks the lifecycle of a season.
type SeasonStatus string

const (
	SeasonDraft        SeasonStatus = "draft"
	SeasonRegistration SeasonStatus = "registration"
	SeasonActive       SeasonStatus = "active"
	SeasonCompleted    SeasonStatus = "completed"
	SeasonCancelled    SeasonStatus = "cancelled"
)

func (s SeasonStatus) Valid() bool {
	switch s {
	case SeasonDraft, SeasonRegistration, SeasonActive, SeasonCompleted, SeasonCancelled:
		return true
	}
	return false
}

// GameStatus tracks the lifecycle of a single game.
type GameStatus string

const (
	GamePending    GameStatus = "pending"
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
	GameCancelled  GameStatus = "cancelled"
	GamePostponed  GameStatus = "postponed"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GamePending, GameScheduled, GameInProgress, GameCompleted, GameCancelled, GamePostponed:
		return true
	}
	return false
}

// EventType is the kind of thing that happened during a game.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventAssist       EventType = "assist"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventSubstitution EventType = "substitution"
	EventPenalty      EventType = "penalty"
	EventOwnGoal      EventType = "own_goal"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGoal, EventAssist, EventYellowCard, EventRedCard, EventSubstitution, EventPenalty, EventOwnGoal:
		return true
	}
	return false
}

// Team is a reference to an externally owned team.
type Team struct {
	ID   TeamID
	Name string
}

// Season owns its weeks and standings. Team order seeds the schedule.
type Season struct {
	ID        SeasonID
	Name      string
	Teams     []Team
	Weeks     []Week
	Standings *Standings
	StartDate time.Time
	EndDate   time.Time // zero when the season has no fixed end
	Status    SeasonStatus
}

// TeamName returns the display name for id, or the id itself if unknown.
func (s *Season) TeamName(id TeamID) string {
	for _, t := range s.Teams {
		if t.ID == id {
			return t.Name
		}
	}
	return id.String()
}

// Week is one 7-day block of the regular season.
type Week struct {
	Number    int
	StartDate time.Time
	EndDate   time.Time
	GameIDs   []GameID
	Completed bool
}

// Score captures home and away goals.
type Score struct {
	Home int
	Away int
}

// GameEvent is a single entry in a game's event log.
type GameEvent struct {
	Type        EventType
	Player      PlayerID
	Team        TeamID
	Minute      int
	Description string
}

// Game is the persisted game record.
type Game struct {
	ID          GameID
	SeasonID    SeasonID
	Week        int
	Home        TeamID
	Away        TeamID
	Status      GameStatus
	Score       Score
	Events      []GameEvent
	ScheduledAt time.Time
	Venue       string

	// StatsProcessed is set once standings and player stats reflect the
	// game's completion.
	StatsProcessed bool
	// Credited holds the players whose gamesPlayed already counts this game.
	Credited PlayerSet
}

// Involves reports whether team plays in g.
func (g *Game) Involves(team TeamID) bool {
	return g.Home == team || g.Away == team
}

// StandingRow is one team's aggregate record for a season.
type StandingRow struct {
	Team          TeamID
	GamesPlayed   int
	Wins          int
	Losses        int
	Ties          int
	PointsFor     int
	PointsAgainst int
	Points        int
}

func (r StandingRow) Differential() int {
	return r.PointsFor - r.PointsAgainst
}

// PlayerStatLine holds the cumulative stats for a player.
type PlayerStatLine struct {
	Player      PlayerID
	GamesPlayed int
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
}

// PlayerSet is a set of player ids.
type PlayerSet map[PlayerID]struct{}

func (s PlayerSet) Has(id PlayerID) bool {
	_, ok := s[id]
	return ok
}

func (s PlayerSet) Add(id PlayerID) {
	s[id] = struct{}{}
}
