package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// State is the mutable world model the forward model operates on. Everything a search needs to
// branch lives here, so Copy yields a fully independent game.
type State struct {
	NPlayers     int       // Number of seats, fixed for the game
	FirstPlayer  int       // First player of the current round
	RoundCounter int       // Completed rounds
	TurnCounter  int       // Completed turns over the whole game
	Tick         int       // Actions applied through the forward model
	Phase        Phase     // Current phase, NoPhase until setup
	TurnOrder    TurnOrder // Owned turn-order policy
	Results      []Result  // Per-player standing, Ongoing while the game runs
	Cursor       Cursor    // Rule-graph position and attached action
	Data         Data      // Game-specific payload

	turnOwner   int // Player whose turn it is when no reaction is pending
	turnInRound int // Turns taken in the current round
	seed        uint64
	src         *rand.PCGSource
	rnd         *rand.Rand
}

// NewState returns an un-setup state for nPlayers seats with a seeded random source.
func NewState(nPlayers int, seed uint64) *State {
	if nPlayers < 1 {
		panic(fmt.Errorf("%w: %d seats requested", ErrNoPlayers, nPlayers))
	}
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &State{
		NPlayers: nPlayers,
		Cursor:   Cursor{Next: NoNode},
		seed:     seed,
		src:      src,
		rnd:      rand.New(src),
	}
}

// IsSetup reports whether the state went through forward-model setup.
func (s *State) IsSetup() bool {
	return s.Phase != NoPhase
}

// MustBeSetup panics with ErrNotSetup for states that were never set up.
func (s *State) MustBeSetup() {
	if !s.IsSetup() {
		panic(ErrNotSetup)
	}
}

// CurrentPlayer returns the player who has to decide next.
func (s *State) CurrentPlayer() int {
	if s.TurnOrder == nil {
		return s.turnOwner
	}
	return s.TurnOrder.CurrentPlayer(s)
}

// TurnOwner returns the player owning the current turn, ignoring pending reactions.
func (s *State) TurnOwner() int {
	return s.turnOwner
}

// SetTurnOwner hands the turn to player without touching counters.
func (s *State) SetTurnOwner(player int) {
	s.mustBePlayer(player)
	s.turnOwner = player
}

// SetStartingPlayer makes player both the first player of the round and the turn owner.
func (s *State) SetStartingPlayer(player int) {
	s.mustBePlayer(player)
	s.FirstPlayer = player
	s.turnOwner = player
}

// TurnInRound returns how many turns were taken in the current round.
func (s *State) TurnInRound() int {
	return s.turnInRound
}

// EndPlayerTurn advances the turn through the bound turn order.
func (s *State) EndPlayerTurn() {
	s.mustHaveTurnOrder()
	s.TurnOrder.EndPlayerTurn(s)
}

// EndRound closes the round through the bound turn order.
func (s *State) EndRound(firstPlayer int) {
	s.mustHaveTurnOrder()
	s.TurnOrder.EndRound(s, firstPlayer)
}

func (s *State) mustHaveTurnOrder() {
	if s.TurnOrder == nil {
		panic(ErrNoTurnOrder)
	}
}

func (s *State) mustBePlayer(player int) {
	if player < 0 || player >= s.NPlayers {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrUnknownPlayer, player, s.NPlayers))
	}
}

// SetResult records the standing of one player.
func (s *State) SetResult(player int, result Result) {
	s.mustBePlayer(player)
	s.Results[player] = result
}

// SetResults overwrites all standings at once.
func (s *State) SetResults(results []Result) {
	if len(results) != s.NPlayers {
		panic(fmt.Errorf("%w: %d results for %d players", ErrUnknownPlayer, len(results), s.NPlayers))
	}
	s.Results = append(s.Results[:0], results...)
}

// IsOngoing reports whether player is still in the game.
func (s *State) IsOngoing(player int) bool {
	return len(s.Results) == 0 || s.Results[player] == Ongoing
}

// IsTerminal reports whether every player's result is decided.
func (s *State) IsTerminal() bool {
	if len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if r == Ongoing {
			return false
		}
	}
	return true
}

// Rand returns the state's random source. Copies continue the same sequence.
func (s *State) Rand() *rand.Rand {
	return s.rnd
}

// Seed returns the seed the state was created or last reseeded with.
func (s *State) Seed() uint64 {
	return s.seed
}

// Reseed restarts the random sequence, e.g. to diversify search clones.
func (s *State) Reseed(seed uint64) {
	s.seed = seed
	s.rnd.Seed(seed)
}

// Copy returns a deep copy of the state.
func (s *State) Copy() *State {
	src := *s.src
	results := make([]Result, len(s.Results))
	copy(results, s.Results)

	c := &State{
		NPlayers:     s.NPlayers,
		FirstPlayer:  s.FirstPlayer,
		RoundCounter: s.RoundCounter,
		TurnCounter:  s.TurnCounter,
		Tick:         s.Tick,
		Phase:        s.Phase,
		Results:      results,
		Cursor:       s.Cursor.copy(),
		turnOwner:    s.turnOwner,
		turnInRound:  s.turnInRound,
		seed:         s.seed,
		src:          &src,
		rnd:          rand.New(&src),
	}
	if s.TurnOrder != nil {
		c.TurnOrder = s.TurnOrder.Copy()
	}
	if s.Data != nil {
		c.Data = s.Data.Copy()
	}
	return c
}

// Hash digests everything that distinguishes two positions.
func (s *State) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(s.turnOwner))
	binary.Write(hasher, binary.LittleEndian, int64(s.FirstPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(s.RoundCounter))
	binary.Write(hasher, binary.LittleEndian, int64(s.TurnCounter))
	binary.Write(hasher, binary.LittleEndian, int64(s.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(s.Cursor.Next))

	for _, r := range s.Results {
		binary.Write(hasher, binary.LittleEndian, int64(r))
	}
	if s.TurnOrder != nil {
		binary.Write(hasher, binary.LittleEndian, s.TurnOrder.Hash())
	}
	if s.Data != nil {
		binary.Write(hasher, binary.LittleEndian, s.Data.Hash())
	}

	return StateHash(hasher.Sum64())
}

func (s *State) String() string {
	return fmt.Sprintf("round=%d turn=%d player=%d phase=%s results=%v",
		s.RoundCounter, s.TurnCounter, s.CurrentPlayer(), s.Phase, s.Results)
}
