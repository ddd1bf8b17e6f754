package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/leagueseason/internal/league"
)

const dateLayout = "2006-01-02"

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Time.Format(dateLayout), nil
}

// Team is a season entrant. ID is optional; teams without one get an id
// derived from their name.
type Team struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name"`
}

type Season struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	StartDate Date   `yaml:"start_date"`
	EndDate   *Date  `yaml:"end_date,omitempty"`
	Status    string `yaml:"status,omitempty"`
}

type Config struct {
	Season   Season `yaml:"season"`
	Strategy string `yaml:"strategy,omitempty"`
	Teams    []Team `yaml:"teams"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "circle"
	}
	if cfg.Season.Status == "" {
		cfg.Season.Status = string(league.SeasonRegistration)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.Season.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if _, err := league.ParseSeasonID(c.Season.ID); err != nil {
		return fmt.Errorf("season: %w", err)
	}
	if c.Season.StartDate.Time.IsZero() {
		return fmt.Errorf("season start_date is required")
	}
	if c.Season.EndDate != nil && !c.Season.EndDate.Time.After(c.Season.StartDate.Time) {
		return fmt.Errorf("end date %s must be after start date %s: %w",
			c.Season.EndDate.Time.Format(dateLayout),
			c.Season.StartDate.Time.Format(dateLayout),
			league.ErrInvalidDateRange)
	}
	if !league.SeasonStatus(c.Season.Status).Valid() {
		return fmt.Errorf("unknown season status %q", c.Season.Status)
	}

	if len(c.Teams) < 2 {
		return fmt.Errorf("%w: config lists %d", league.ErrInsufficientTeams, len(c.Teams))
	}

	names := make(map[string]bool)
	ids := make(map[league.TeamID]string)
	for _, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("every team needs a name")
		}
		if names[t.Name] {
			return fmt.Errorf("team %q is listed twice", t.Name)
		}
		names[t.Name] = true

		id, err := t.teamID()
		if err != nil {
			return fmt.Errorf("team %q: %w", t.Name, err)
		}
		if prev, ok := ids[id]; ok {
			return fmt.Errorf("teams %q and %q share id %s", prev, t.Name, id)
		}
		ids[id] = t.Name
	}

	return nil
}

func (t Team) teamID() (league.TeamID, error) {
	if t.ID == "" {
		return league.TeamIDFromName(t.Name), nil
	}
	return league.ParseTeamID(t.ID)
}

// ToSeason converts the config into a season definition ready to register.
func (c *Config) ToSeason() (*league.Season, error) {
	id, err := league.ParseSeasonID(c.Season.ID)
	if err != nil {
		return nil, err
	}
	season := &league.Season{
		ID:        id,
		Name:      c.Season.Name,
		StartDate: c.Season.StartDate.Time,
		Status:    league.SeasonStatus(c.Season.Status),
	}
	if c.Season.EndDate != nil {
		season.EndDate = c.Season.EndDate.Time
	}
	for _, t := range c.Teams {
		teamID, err := t.teamID()
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", t.Name, err)
		}
		season.Teams = append(season.Teams, league.Team{ID: teamID, Name: t.Name})
	}
	return season, nil
}

// Env holds settings taken from the environment rather than the season file.
type Env struct {
	DBPath    string
	LogLevel  string
	LogFormat string
}

// LoadEnv reads an optional .env file in dir, then resolves settings from the
// environment. Variables already set win over the file.
func LoadEnv(dir string) (Env, error) {
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, fmt.Errorf("error loading .env file: %w", err)
	}

	return Env{
		DBPath:    getEnv("SEASON_DB_PATH", "season.db"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
