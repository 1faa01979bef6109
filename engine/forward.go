package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tagsim/game"
	"tagsim/rules"
)

// maxWalks bounds the interrupted or looped graph walks threaded by a single call.
const maxWalks = 1024

// ActionFilter narrows a generated action list. Filters run in the order they were added.
type ActionFilter func(s *game.State, actions []game.Action) []game.Action

type Option func(fm *ForwardModel)

// WithMaxRounds ends the game once the round counter reaches rounds.
func WithMaxRounds(rounds int) Option {
	return func(fm *ForwardModel) {
		if rounds > 0 {
			fm.maxRounds = rounds
		}
	}
}

func WithActionFilter(filter ActionFilter) Option {
	return func(fm *ForwardModel) {
		if filter != nil {
			fm.filters = append(fm.filters, filter)
		}
	}
}

// ForwardModel drives a game's states through setup, action enumeration and action application.
// It holds no per-state data: one instance serves any number of states, concurrently as long as
// each goroutine works on its own state.
type ForwardModel struct {
	game      Game
	graph     *rules.Graph
	maxRounds int
	filters   []ActionFilter
}

func New(g Game, options ...Option) *ForwardModel {
	fm := &ForwardModel{
		game:  g,
		graph: g.Rules(),
	}
	for _, option := range options {
		option(fm)
	}
	return fm
}

func (fm *ForwardModel) Game() Game { return fm.game }

func (fm *ForwardModel) Graph() *rules.Graph { return fm.graph }

func (fm *ForwardModel) MaxRounds() int { return fm.maxRounds }

// Start returns a set-up state for nPlayers seats.
func (fm *ForwardModel) Start(nPlayers int, seed uint64) (*game.State, error) {
	lo, hi := fm.game.Players()
	if nPlayers < lo || nPlayers > hi {
		return nil, fmt.Errorf("%w: %s takes %d to %d players, got %d", ErrPlayerCount, fm.game.Name(), lo, hi, nPlayers)
	}
	s := game.NewState(nPlayers, seed)
	fm.Setup(s)
	return s, nil
}

// Setup initialises a fresh state and threads the rule graph to the first decision.
func (fm *ForwardModel) Setup(s *game.State) {
	if s.IsSetup() {
		panic(fmt.Errorf("%w: %s", ErrAlreadySetup, fm.game.Name()))
	}

	s.Phase = game.MainPhase
	s.TurnOrder = fm.game.NewTurnOrder()
	s.RoundCounter = 0
	s.TurnCounter = 0
	s.Tick = 0
	s.SetStartingPlayer(0)
	s.Results = make([]game.Result, s.NPlayers)
	fm.graph.Start(s)

	fm.game.Setup(s)
	fm.thread(s, nil)
	fm.CheckGameEnd(s)

	log.Debug().Str("game", fm.game.Name()).Int("players", s.NPlayers).Uint64("seed", s.Seed()).Msg("game set up")
}

// ComputeAvailableActions lists the current player's legal actions. The list is empty exactly when
// the state is terminal.
func (fm *ForwardModel) ComputeAvailableActions(s *game.State) []game.Action {
	s.MustBeSetup()
	if s.IsTerminal() {
		return []game.Action{}
	}

	actions := fm.game.Actions(s)
	for _, filter := range fm.filters {
		actions = filter(s, actions)
	}
	if len(actions) == 0 {
		panic(fmt.Errorf("%w: %s, player %d, phase %s, node %d",
			ErrDeadlock, fm.game.Name(), s.CurrentPlayer(), s.Phase, s.Cursor.Next))
	}
	return actions
}

// Next applies a legal action to s and threads the rule graph to the next decision or the end of
// the game. Legality is by Equal, so a freshly built action equal to a legal one is accepted.
func (fm *ForwardModel) Next(s *game.State, action game.Action) error {
	s.MustBeSetup()
	if s.IsTerminal() {
		return ErrGameOver
	}

	legal := fm.ComputeAvailableActions(s)
	i := game.IndexOf(legal, action)
	if i < 0 {
		return fmt.Errorf("%w: %v for player %d in phase %s", ErrIllegalAction, action, s.CurrentPlayer(), s.Phase)
	}

	fm.thread(s, legal[i].Copy())
	s.Tick++
	fm.CheckGameEnd(s)
	return nil
}

// Play is Next on a copy; s is left untouched.
func (fm *ForwardModel) Play(s *game.State, action game.Action) (*game.State, error) {
	c := s.Copy()
	if err := fm.Next(c, action); err != nil {
		return nil, err
	}
	return c, nil
}

// IsTerminal reports whether every player's result is decided.
func (fm *ForwardModel) IsTerminal(s *game.State) bool {
	s.MustBeSetup()
	return s.IsTerminal()
}

// CheckGameEnd applies the game's own end conditions and the round limit. It reports whether the
// state is terminal.
func (fm *ForwardModel) CheckGameEnd(s *game.State) bool {
	if s.IsTerminal() {
		return true
	}

	if ender, ok := fm.game.(Ender); ok {
		if results := ender.GameOver(s); results != nil {
			fm.endGame(s, results)
			return true
		}
	}

	if fm.maxRounds > 0 && s.RoundCounter >= fm.maxRounds {
		fm.endGame(s, fm.rank(s))
		return true
	}
	return false
}

// rank orders the players still in the game by score. Without a scorer they all draw.
func (fm *ForwardModel) rank(s *game.State) []game.Result {
	results := make([]game.Result, s.NPlayers)
	if scorer, ok := fm.game.(Scorer); ok {
		results = game.RankResults(scorer.Scores(s))
	} else {
		for p := range results {
			results[p] = game.Draw
		}
	}
	for p, r := range s.Results {
		if r != game.Ongoing {
			results[p] = r
		}
	}
	return results
}

func (fm *ForwardModel) endGame(s *game.State, results []game.Result) {
	s.SetResults(results)
	s.Phase = game.GameOverPhase
	log.Debug().Str("game", fm.game.Name()).Int("round", s.RoundCounter).Interface("results", results).Msg("game over")
}

// thread walks the graph until a decision is pending or the game is over. Interruptions and loops
// back to a rule entry resume immediately.
func (fm *ForwardModel) thread(s *game.State, action game.Action) rules.Outcome {
	outcome := fm.graph.Run(s, action)
	for walks := 1; outcome == rules.Interrupted || outcome == rules.Looped; walks++ {
		if s.IsTerminal() || fm.CheckGameEnd(s) {
			return rules.GameOver
		}
		if walks >= maxWalks {
			panic(fmt.Errorf("%w: %s stopped %d times without reaching a decision", ErrNoProgress, fm.game.Name(), walks))
		}
		outcome = fm.graph.Run(s, nil)
	}
	return outcome
}
