package rules

import "errors"

var (
	// ErrInvalidGraph is returned by Build for incomplete or inconsistent topologies.
	ErrInvalidGraph = errors.New("invalid rule graph")
	// ErrStepLimit is raised when one walk visits more nodes than the graph allows.
	ErrStepLimit = errors.New("rule graph step limit exceeded")
	// ErrUnknownNode is raised when a state's cursor points outside the graph.
	ErrUnknownNode = errors.New("unknown rule node")
	// ErrNoReactiveTurnOrder is raised by reaction rules on states without a reactive turn order.
	ErrNoReactiveTurnOrder = errors.New("state has no reactive turn order")
)
