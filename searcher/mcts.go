package searcher

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/game"
)

// MaxCutoff disables the rollout depth limit.
const MaxCutoff = math.MaxInt

type Option func(mcts *MCTS)

// Evaluate scores a non-terminal state with one reward in [Loss, Win] per player.
type Evaluate func(state *game.State) []float64

type MCTS struct {
	model      *engine.ForwardModel
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	metrics    metrics.Collector
	seeds      atomic.Uint64 // Reseeds episode clones so chance outcomes vary
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seeds.Store(seed)
	}
}

func NewMCTS(model *engine.ForwardModel, goroutines int, options ...Option) *MCTS {
	if goroutines < 1 {
		goroutines = 1
	}
	m := &MCTS{ // Default values
		model:      model,
		goroutines: goroutines,
		cutoff:     MaxCutoff,
		evaluate:   ScoreEvaluation(model),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state, which is only read, and returns the root visit policy.
func (m *MCTS) Simulate(state *game.State) (Policy, metrics.SearchMetric) {
	root := newDecision(nil, -1, m.model, state)

	m.metrics.Start(m.goroutines, m.cutoff)
	if len(root.actions) > 0 {
		m.search(root, state)
	}
	metric := m.metrics.Complete()

	log.Debug().Int("player", root.player).Float64("visits", root.Visits()).Msg("search complete")
	return root.Policy(), metric
}

func (m *MCTS) search(root *decision, state *game.State) {
	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}
}

func (m *MCTS) iterate(root *decision, state *game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(root, state)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state *game.State) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// simulate runs one episode on a private clone of state.
func (m *MCTS) simulate(root Node, state *game.State) {
	clone := state.Copy()
	clone.Reseed(m.seeds.Add(1))

	newNode := selectThenExpand(m.model, root, clone)
	rewards := rollout(m.model, clone, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, rewards)
}

func selectThenExpand(fm *engine.ForwardModel, root Node, state *game.State) Node {
	node := root
	child, expanded := node.SelectOrExpand(fm, state)
	for !expanded && child != node {
		node = child
		child, expanded = node.SelectOrExpand(fm, state)
	}
	return child
}

func rollout(fm *engine.ForwardModel, state *game.State, cutoff int, evaluate Evaluate, metrics metrics.Collector) []float64 {
	// Rollout till game over or for cutoff number of actions
	for depth := 0; depth < cutoff && !fm.IsTerminal(state); depth++ {
		actions := fm.ComputeAvailableActions(state)
		play(fm, state, actions[state.Rand().Intn(len(actions))]) // Random rollout policy
	}

	if fm.IsTerminal(state) { // Game over before cutoff
		metrics.AddFullPlayout()
		return rewards(state.Results)
	}
	return evaluate(state)
}

func backup(newNode Node, rewards []float64) {
	node := newNode
	for node != nil {
		node = node.Backup(rewards)
	}
}

// ScoreEvaluation ranks players by the game's scores when it has any, and calls every position
// even otherwise.
func ScoreEvaluation(model *engine.ForwardModel) Evaluate {
	scorer, ok := model.Game().(engine.Scorer)
	return func(state *game.State) []float64 {
		if ok {
			return rewards(game.RankResults(scorer.Scores(state)))
		}
		even := make([]float64, state.NPlayers)
		for p := range even {
			even[p] = Draw
		}
		return even
	}
}

// HeuristicEvaluation evaluates cut off states with the game's own heuristic, falling back
// to ScoreEvaluation for games without one.
func HeuristicEvaluation(model *engine.ForwardModel) Evaluate {
	if evaluator, ok := model.Game().(engine.Evaluator); ok {
		return evaluator.Evaluate
	}
	return ScoreEvaluation(model)
}
