// Package experiments plays series of games between configured agents and stores the records.
package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tagsim/config"
	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/game"
	"tagsim/games"
	"tagsim/searcher/agent"
)

// Standing tallies one agent's results over a series.
type Standing struct {
	Agent  int     `json:"agent"`
	Kind   string  `json:"kind"`
	Games  int     `json:"games"`
	Wins   int     `json:"wins"`
	Draws  int     `json:"draws"`
	Losses int     `json:"losses"`
	Points float64 `json:"points"` // Win 1, draw 0.5
}

// Summary is the outcome of a series.
type Summary struct {
	Game      string     `json:"game"`
	Games     int        `json:"games"`
	Moves     int        `json:"moves"`
	Truncated int        `json:"truncated"`
	Fallbacks int        `json:"fallbacks"`
	Standings []Standing `json:"standings"` // In config order
	Dir       string     `json:"dir,omitempty"`

	// Experiment is the id of the series in the database, if one was configured.
	Experiment string `json:"experiment,omitempty"`
}

// Records holds everything a series produced.
type Records struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Run plays config.Games games. Seats rotate by one agent per game so every agent
// takes every seat, and game i is seeded with config.Seed+i.
func Run(cfg *config.Config) (Summary, Records, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, Records{}, err
	}

	g, err := games.Lookup(cfg.Game)
	if err != nil {
		return Summary{}, Records{}, err
	}
	model := engine.New(g, engine.WithMaxRounds(cfg.MaxRounds))

	summary := Summary{Game: cfg.Game}
	for _, a := range cfg.Agents {
		summary.Standings = append(summary.Standings, Standing{Agent: a.ID, Kind: a.Kind})
	}
	records := Records{}

	log.Info().Msgf("starting %d %s games between %d agents...", cfg.Games, cfg.Game, len(cfg.Agents))

	for i := 0; i < cfg.Games; i++ {
		seed := cfg.Seed + uint64(i)
		seats := rotate(len(cfg.Agents), i)

		gameMetric, moveMetrics, err := runGame(model, cfg, seats, seed)
		if err != nil {
			return Summary{}, Records{}, fmt.Errorf("game %d: %w", i+1, err)
		}

		ids := make([]int, len(seats))
		for seat, a := range seats {
			ids[seat] = cfg.Agents[a].ID
		}
		records.Games = append(records.Games, metrics.GameRecord{Agents: ids, GameMetric: gameMetric})
		for _, mm := range moveMetrics {
			records.Moves = append(records.Moves, metrics.MoveRecord{Game: gameMetric.ID, MoveMetric: mm})
		}
		summary.tally(gameMetric, seats)

		log.Info().Str("game", gameMetric.ID.String()).Msgf("completed game %d of %d with winners %v", i+1, cfg.Games, gameMetric.Winners())
	}

	log.Info().Msgf("completed %d %s games", cfg.Games, cfg.Game)

	if cfg.Output != "" {
		dir, err := store(cfg, records)
		if err != nil {
			return Summary{}, Records{}, err
		}
		summary.Dir = dir
	}
	if cfg.Database != "" {
		id, err := save(cfg, records)
		if err != nil {
			return Summary{}, Records{}, err
		}
		summary.Experiment = id
	}
	return summary, records, nil
}

func experimentName(cfg *config.Config) string {
	return fmt.Sprintf("%s_%dp", cfg.Game, cfg.Players)
}

// rotate returns the config index of the agent in each seat for game i.
func rotate(n, i int) []int {
	seats := make([]int, n)
	for seat := range seats {
		seats[seat] = (seat + i) % n
	}
	return seats
}

func runGame(model *engine.ForwardModel, cfg *config.Config, seats []int, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := make([]engine.Agent, len(seats))
	for seat, a := range seats {
		// Each agent gets its own stream, independent of the seat it plays
		ag, err := agent.New(model, cfg.Agents[a], seed*31+uint64(a))
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		agents[seat] = ag
	}

	e, err := engine.LocalEngine(model, agents, seed, cfg.MaxMoves)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	gameMetric, moveMetrics := e.Run()
	return gameMetric, moveMetrics, nil
}

func (s *Summary) tally(gameMetric metrics.GameMetric, seats []int) {
	s.Games++
	s.Moves += gameMetric.TotalMoves
	s.Fallbacks += gameMetric.Fallbacks
	if gameMetric.Truncated {
		s.Truncated++
	}

	for seat, a := range seats {
		standing := &s.Standings[a]
		standing.Games++
		switch gameMetric.Results[seat] {
		case game.Win:
			standing.Wins++
			standing.Points += 1
		case game.Draw:
			standing.Draws++
			standing.Points += 0.5
		case game.Lose:
			standing.Losses++
		}
	}
}

func store(cfg *config.Config, records Records) (string, error) {
	writer, err := metrics.NewWriter(cfg.Output, experimentName(cfg))
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(records.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(records.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}

	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return writer.Dir(), nil
}

func save(cfg *config.Config, records Records) (string, error) {
	store, err := metrics.OpenStore(cfg.Database)
	if err != nil {
		return "", err
	}
	defer store.Close()

	id, err := store.SaveExperiment(experimentName(cfg), cfg.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store experiment: %w", err)
	}
	if err := store.SaveGames(id, records.Games); err != nil {
		return "", fmt.Errorf("failed to store game records: %w", err)
	}
	if err := store.SaveMoves(records.Moves); err != nil {
		return "", fmt.Errorf("failed to store move records: %w", err)
	}

	log.Info().Str("experiment", id.String()).Str("database", cfg.Database).Msg("stored experiment records")
	return id.String(), nil
}
