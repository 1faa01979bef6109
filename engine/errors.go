package engine

import "errors"

var (
	// ErrIllegalAction is returned by Next for actions outside the current legal set.
	ErrIllegalAction = errors.New("illegal action")
	// ErrGameOver is returned by Next on terminal states.
	ErrGameOver = errors.New("game is over")
	// ErrDeadlock is raised when a game offers no action on a non-terminal state.
	ErrDeadlock = errors.New("no available actions on a non-terminal state")
	// ErrAlreadySetup is raised when a state is set up twice.
	ErrAlreadySetup = errors.New("game state is already set up")
	// ErrPlayerCount is returned for seat counts the game does not support.
	ErrPlayerCount = errors.New("unsupported number of players")
	// ErrNoProgress is raised when threading the rule graph never reaches a decision.
	ErrNoProgress = errors.New("rule graph makes no progress")
)
