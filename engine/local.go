package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tagsim/experiments/metrics"
	"tagsim/game"
)

// Local plays one game in-process, asking each seat's agent for moves.
type Local struct {
	ID       uuid.UUID
	Model    *ForwardModel
	State    *game.State
	Agents   []Agent
	MaxMoves int

	rnd *rand.Rand // Fallback picks, kept apart from the game's own random source
}

var _ Engine = (*Local)(nil)

func LocalEngine(model *ForwardModel, agents []Agent, seed uint64, maxMoves int) (*Local, error) {
	state, err := model.Start(len(agents), seed)
	if err != nil {
		return nil, err
	}
	if maxMoves <= 0 {
		maxMoves = DefaultMaxMoves
	}

	return &Local{
		ID:       uuid.New(),
		Model:    model,
		State:    state,
		Agents:   agents,
		MaxMoves: maxMoves,
		rnd:      rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15)),
	}, nil
}

// Run executes the game loop until the game is over or the move limit is hit.
func (e *Local) Run() (metrics.GameMetric, []metrics.MoveMetric) {
	name := e.Model.Game().Name()
	gameMetric := metrics.GameMetric{
		ID:             e.ID,
		Game:           name,
		Players:        e.State.NPlayers,
		StartingPlayer: e.State.CurrentPlayer(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Str("game", e.ID.String()).Str("name", name).Msgf("player %d is starting", gameMetric.StartingPlayer)

	step := 0
	for !e.Model.IsTerminal(e.State) && step < e.MaxMoves {
		player := e.State.CurrentPlayer()
		legal := e.Model.ComputeAvailableActions(e.State)

		action, searchMetric := e.Agents[player].FindMove(e.State.Copy())
		fallback := false
		if game.IndexOf(legal, action) < 0 {
			replacement := legal[e.rnd.Intn(len(legal))]
			log.Warn().Str("game", e.ID.String()).Int("player", player).
				Msgf("agent chose illegal action %v, playing %v instead", action, replacement)
			action = replacement
			fallback = true
			gameMetric.Fallbacks++
		}

		if err := e.Model.Next(e.State, action); err != nil {
			panic(fmt.Errorf("applying checked action %v: %w", action, err))
		}
		step++

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Action:       action.String(),
			Fallback:     fallback,
			SearchMetric: searchMetric,
		})
		log.Debug().Str("game", e.ID.String()).Int("step", step).Int("player", player).Msgf("played %v", action)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	gameMetric.Rounds = e.State.RoundCounter
	gameMetric.Results = append([]game.Result(nil), e.State.Results...)
	gameMetric.Truncated = !e.State.IsTerminal()

	if gameMetric.Truncated {
		log.Info().Str("game", e.ID.String()).Msgf("stopped after %d moves without a result", step)
	} else {
		log.Info().Str("game", e.ID.String()).Msgf("game over after %d moves with results %v", step, gameMetric.Results)
	}
	return gameMetric, moveMetrics
}
