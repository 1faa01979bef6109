// Package config loads and validates match configurations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tagsim/experiments/metrics"
	"tagsim/games"
	"tagsim/searcher/agent"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes a series of games between a fixed set of agents.
type Config struct {
	// Game is the registered name of the game to play.
	Game string `yaml:"game"`

	// Players is the number of seats. Each seat is taken by one of Agents.
	Players int `yaml:"players"`

	// Seed seeds the first game; game i uses Seed+i.
	Seed uint64 `yaml:"seed"`

	// Games is the number of games to play. Seats rotate between games.
	Games int `yaml:"games"`

	// MaxMoves truncates games that run longer. 0 uses the engine default.
	MaxMoves int `yaml:"max_moves,omitempty"`

	// MaxRounds ends games after this many rounds with scores ranked. 0 disables the limit.
	MaxRounds int `yaml:"max_rounds,omitempty"`

	// Output is the directory receiving CSV records. Empty disables writing.
	Output string `yaml:"output,omitempty"`

	// Database is a SQLite file that accumulates records across runs. Empty disables it.
	Database string `yaml:"database,omitempty"`

	Agents []metrics.AgentConfig `yaml:"agents"`
}

// Default returns a two-player Nim match between a searching agent and a random one.
func Default() *Config {
	return &Config{
		Game:    "nim",
		Players: 2,
		Seed:    1,
		Games:   10,
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: agent.MCTS, Goroutines: 4, Episodes: 1000},
			{ID: 2, Kind: agent.Random},
		},
	}
}

// Load reads a config file. Fields missing from the file keep their Default value.
// Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the config against the registered games and agent kinds.
func (c *Config) Validate() error {
	g, err := games.Lookup(c.Game)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	min, max := g.Players()
	if c.Players < min || c.Players > max {
		return fmt.Errorf("%w: %s needs %d to %d players, got %d", ErrInvalidConfig, c.Game, min, max, c.Players)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	}
	if c.MaxMoves < 0 || c.MaxRounds < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidConfig)
	}
	if len(c.Agents) != c.Players {
		return fmt.Errorf("%w: %d agents for %d players", ErrInvalidConfig, len(c.Agents), c.Players)
	}

	ids := map[int]bool{}
	for i, a := range c.Agents {
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidConfig, a.ID)
		}
		ids[a.ID] = true

		switch a.Kind {
		case agent.Random:
		case agent.MCTS, agent.Training:
			if a.Episodes <= 0 && a.Duration <= 0 {
				return fmt.Errorf("%w: agent %d needs episodes or a duration", ErrInvalidConfig, i)
			}
			switch a.Evaluation {
			case "", agent.RankEvaluation, agent.HeuristicEvaluation:
			default:
				return fmt.Errorf("%w: agent %d: %w: %q", ErrInvalidConfig, i, agent.ErrUnknownEvaluation, a.Evaluation)
			}
		default:
			return fmt.Errorf("%w: agent %d: %w: %q", ErrInvalidConfig, i, agent.ErrUnknownKind, a.Kind)
		}
	}
	return nil
}
