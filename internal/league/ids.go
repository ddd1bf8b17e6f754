package league

import (
	"fmt"

	"github.com/google/uuid"
)

// teamNamespace seeds name-derived team ids so the same config always yields
// the same identifiers.
var teamNamespace = uuid.MustParse("6f1c1b0e-6a5e-4c55-9a51-2f0d0f5c8a11")

// TeamID identifies a team registered in a season.
type TeamID uuid.UUID

// PlayerID identifies a player on a team's roster.
type PlayerID uuid.UUID

// GameID identifies a scheduled game.
type GameID uuid.UUID

// SeasonID identifies a season.
type SeasonID uuid.UUID

func NewTeamID() TeamID     { return TeamID(uuid.New()) }
func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }
func NewGameID() GameID     { return GameID(uuid.New()) }
func NewSeasonID() SeasonID { return SeasonID(uuid.New()) }

// TeamIDFromName derives a stable id for a team that was configured by name only.
func TeamIDFromName(name string) TeamID {
	return TeamID(uuid.NewSHA1(teamNamespace, []byte(name)))
}

func (id TeamID) String() string   { return uuid.UUID(id).String() }
func (id PlayerID) String() string { return uuid.UUID(id).String() }
func (id GameID) String() string   { return uuid.UUID(id).String() }
func (id SeasonID) String() string { return uuid.UUID(id).String() }

func (id TeamID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PlayerID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id GameID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SeasonID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func ParseTeamID(s string) (TeamID, error) {
	u, err := parseID("team", s)
	return TeamID(u), err
}

func ParsePlayerID(s string) (PlayerID, error) {
	u, err := parseID("player", s)
	return PlayerID(u), err
}

func ParseGameID(s string) (GameID, error) {
	u, err := parseID("game", s)
	return GameID(u), err
}

func ParseSeasonID(s string) (SeasonID, error) {
	u, err := parseID("season", s)
	return SeasonID(u), err
}

func parseID(kind, s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, s, err)
	}
	return u, nil
}
