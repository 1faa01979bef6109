package game

import "fmt"

// Result is a player's standing.
type Result int

const (
	Ongoing Result = iota
	Win
	Lose
	Draw
)

func (r Result) String() string {
	switch r {
	case Ongoing:
		return "Ongoing"
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	case Draw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// ParseResult is the inverse of Result.String.
func ParseResult(s string) (Result, error) {
	for _, r := range []Result{Ongoing, Win, Lose, Draw} {
		if r.String() == s {
			return r, nil
		}
	}
	return Ongoing, fmt.Errorf("%w: %q", ErrUnknownResult, s)
}

// RankResults turns final scores into results: the unique top score wins, tied top scores draw
// and everybody else loses.
func RankResults(scores []float64) []Result {
	results := make([]Result, len(scores))
	if len(scores) == 0 {
		return results
	}

	best := scores[0]
	for _, score := range scores[1:] {
		if score > best {
			best = score
		}
	}
	top := 0
	for _, score := range scores {
		if score == best {
			top++
		}
	}

	for i, score := range scores {
		switch {
		case score != best:
			results[i] = Lose
		case top > 1:
			results[i] = Draw
		default:
			results[i] = Win
		}
	}
	return results
}
