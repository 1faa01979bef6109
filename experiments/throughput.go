package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tagsim/engine"
	"tagsim/games"
	"tagsim/searcher"
)

// DefaultGoroutines are the parallelism levels measured when none are given.
var DefaultGoroutines = []int{1, 2, 4, 8, 16}

// Throughput is the search rate measured at one parallelism level.
type Throughput struct {
	Goroutines        int     `json:"goroutines"`
	Episodes          int     `json:"episodes"`
	FullPlayouts      int     `json:"full_playouts"`
	EpisodesPerSecond float64 `json:"episodes_per_second"`
}

// RunThroughput searches the opening state of the named game for the given duration at each
// parallelism level and reports how many episodes completed.
func RunThroughput(name string, players int, seed uint64, duration time.Duration, goroutines []int) ([]Throughput, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %v", duration)
	}
	if len(goroutines) == 0 {
		goroutines = DefaultGoroutines
	}

	g, err := games.Lookup(name)
	if err != nil {
		return nil, err
	}
	model := engine.New(g)
	state, err := model.Start(players, seed)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("starting throughput experiment on %s...", name)

	results := make([]Throughput, 0, len(goroutines))
	for _, n := range goroutines {
		mcts := searcher.NewMCTS(model, n, searcher.WithDuration(duration), searcher.WithSeed(seed), searcher.WithMetrics())
		_, metric := mcts.Simulate(state)

		result := Throughput{
			Goroutines:   metric.Goroutines,
			Episodes:     metric.Episodes,
			FullPlayouts: metric.FullPlayouts,
		}
		if metric.Duration > 0 {
			result.EpisodesPerSecond = float64(metric.Episodes) / metric.Duration.Seconds()
		}
		results = append(results, result)

		log.Info().Msgf("%d goroutines completed %d episodes (%.0f/s)", result.Goroutines, result.Episodes, result.EpisodesPerSecond)
	}

	log.Info().Msg("completed throughput experiment")
	return results, nil
}
