package rules

import (
	"fmt"

	"tagsim/game"
)

// Stock node effects shared by most games.

// EndPlayerTurn passes the turn on through the state's turn order.
func EndPlayerTurn() RuleFunc {
	return func(s *game.State) bool {
		s.EndPlayerTurn()
		return true
	}
}

// EndRound closes the round; the next round starts at the player chosen by first.
func EndRound(first func(s *game.State) int) RuleFunc {
	return func(s *game.State) bool {
		s.EndRound(first(s))
		return true
	}
}

// SetPhase switches the game phase.
func SetPhase(phase game.Phase) RuleFunc {
	return func(s *game.State) bool {
		s.Phase = phase
		return true
	}
}

// ForceAllPlayerReaction queues one reaction per seat and enters the reaction phase.
func ForceAllPlayerReaction() RuleFunc {
	return func(s *game.State) bool {
		reactive(s).AddAllReactivePlayers(s)
		s.Phase = game.PlayerReactionPhase
		return true
	}
}

// ForceCurrentPlayerReaction queues a reaction from the deciding player and enters the reaction
// phase.
func ForceCurrentPlayerReaction() RuleFunc {
	return func(s *game.State) bool {
		reactive(s).AddCurrentPlayerReaction(s)
		s.Phase = game.PlayerReactionPhase
		return true
	}
}

// EndReactionStep consumes the reaction at the head of the queue, or ends the turn when no
// reaction is pending. The phase returns to main once the queue is empty.
func EndReactionStep() RuleFunc {
	return func(s *game.State) bool {
		order := reactive(s)
		order.EndPlayerTurnStep(s)
		if order.ReactionsFinished() && s.Phase == game.PlayerReactionPhase {
			s.Phase = game.MainPhase
		}
		return true
	}
}

// ReactionsRemaining tests whether reactions are still queued.
func ReactionsRemaining() ConditionFunc {
	return func(s *game.State) bool {
		return !reactive(s).ReactionsFinished()
	}
}

func reactive(s *game.State) *game.Reactive {
	order, ok := s.TurnOrder.(*game.Reactive)
	if !ok {
		panic(fmt.Errorf("%w: got %T", ErrNoReactiveTurnOrder, s.TurnOrder))
	}
	return order
}
