package searcher

import (
	"math"

	"tagsim/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// Rewards estimate the chance of winning from the mover's perspective
const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// Visit is the search statistic of one root action.
type Visit struct {
	Action game.Action
	Visits float64
}

// Policy lists root actions in generation order with their visit counts.
type Policy []Visit

// Best returns the most visited action; ties go to the earlier one.
func (p Policy) Best() game.Action {
	if len(p) == 0 {
		panic("policy has no actions")
	}
	best := 0
	for i, v := range p[1:] {
		if v.Visits > p[best].Visits {
			best = i + 1
		}
	}
	return p[best].Action
}

// Total returns the visits over all actions.
func (p Policy) Total() float64 {
	total := 0.0
	for _, v := range p {
		total += v.Visits
	}
	return total
}

// rewards converts final results into per-player rewards.
func rewards(results []game.Result) []float64 {
	r := make([]float64, len(results))
	for p, result := range results {
		switch result {
		case game.Win:
			r[p] = Win
		case game.Lose:
			r[p] = Loss
		default:
			r[p] = Draw
		}
	}
	return r
}
