package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/metrics"
)

// PipelineState is a position in the conversation pipeline
type PipelineState int

const (
	StateStart PipelineState = iota
	StateRetrieved
	StateGenerated
)

func (s PipelineState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateRetrieved:
		return "retrieved"
	case StateGenerated:
		return "generated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type transition struct {
	stage Stage
	next  PipelineState
}

// ConversationPipeline runs retrieval then generation, once, in that order.
// StateGenerated is terminal.
type ConversationPipeline struct {
	transitions map[PipelineState]transition
	logger      *slog.Logger
}

// NewConversationPipeline wires the two stages into the state machine
func NewConversationPipeline(retrieval, generation Stage, logger *slog.Logger) *ConversationPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationPipeline{
		transitions: map[PipelineState]transition{
			StateStart:     {stage: retrieval, next: StateRetrieved},
			StateRetrieved: {stage: generation, next: StateGenerated},
		},
		logger: logger,
	}
}

// Run drives the state from StateStart to StateGenerated.
// The first stage error stops the run.
func (p *ConversationPipeline) Run(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error) {
	current := StateStart
	for current != StateGenerated {
		t, ok := p.transitions[current]
		if !ok {
			return state, fmt.Errorf("no transition from %s", current)
		}

		start := time.Now()
		next, err := t.stage.Run(ctx, state)
		metrics.ObserveStage(t.stage.Name(), time.Since(start).Seconds())
		if err != nil {
			p.logger.Debug("pipeline stopped", "state", current, "stage", t.stage.Name(), "error", err)
			return state, err
		}

		state = next
		current = t.next
	}
	return state, nil
}
