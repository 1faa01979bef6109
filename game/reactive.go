package game

import (
	"encoding/binary"
	"hash/fnv"
)

// Reactive extends Simple with a FIFO queue of players who owe a reaction. While the queue is
// non-empty its head is the current player; normal rotation resumes once it drains.
type Reactive struct {
	Simple
	queue []int
}

func NewReactive(rotate bool) *Reactive {
	return &Reactive{Simple: Simple{Rotate: rotate}}
}

func (t *Reactive) CurrentPlayer(s *State) int {
	if len(t.queue) > 0 {
		return t.queue[0]
	}
	return s.turnOwner
}

// AddReactivePlayer queues one reaction from player.
func (t *Reactive) AddReactivePlayer(s *State, player int) {
	s.mustBePlayer(player)
	t.queue = append(t.queue, player)
}

// AddCurrentPlayerReaction queues a reaction from whoever is deciding now.
func (t *Reactive) AddCurrentPlayerReaction(s *State) {
	t.queue = append(t.queue, t.CurrentPlayer(s))
}

// AddAllReactivePlayers queues one reaction per seat, clockwise from the turn owner.
func (t *Reactive) AddAllReactivePlayers(s *State) {
	mustHavePlayers(s)
	for i := 0; i < s.NPlayers; i++ {
		t.queue = append(t.queue, (s.turnOwner+i)%s.NPlayers)
	}
}

// EndPlayerTurnStep consumes the pending reaction at the head of the queue. With nothing
// pending it ends the owner's turn instead.
func (t *Reactive) EndPlayerTurnStep(s *State) {
	if len(t.queue) > 0 {
		t.queue = t.queue[1:]
		return
	}
	t.EndPlayerTurn(s)
}

func (t *Reactive) ReactionsFinished() bool {
	return len(t.queue) == 0
}

func (t *Reactive) ReactionsRemaining() int {
	return len(t.queue)
}

// Pending returns the queued reactions, head first.
func (t *Reactive) Pending() []int {
	pending := make([]int, len(t.queue))
	copy(pending, t.queue)
	return pending
}

func (t *Reactive) Copy() TurnOrder {
	return &Reactive{
		Simple: t.Simple,
		queue:  t.Pending(),
	}
}

func (t *Reactive) Hash() uint64 {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, t.Simple.Hash())
	for _, p := range t.queue {
		binary.Write(hasher, binary.LittleEndian, int64(p))
	}
	return hasher.Sum64()
}
