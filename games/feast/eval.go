package feast

import "tagsim/game"

// handWeight discounts tokens still in hand against points already scored.
const handWeight = 0.5

// Evaluate estimates each player's standing from scored points and the tokens left to offer,
// normalized against the strongest opponent and mapped to [0, 1].
func (g *Game) Evaluate(s *game.State) []float64 {
	t := table(s)
	resources := make([]float64, s.NPlayers)
	for p := range resources {
		resources[p] = float64(t.Scores[p])
		for _, v := range t.Hands[p] {
			resources[p] += handWeight * float64(v)
		}
	}

	rewards := make([]float64, s.NPlayers)
	for p := range rewards {
		best := 0.0
		for o, r := range resources {
			if o != p && r > best {
				best = r
			}
		}
		rewards[p] = (normalize(resources[p], best) + 1) / 2
	}
	return rewards
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
