package driving

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// ChatService runs conversation turns against an ingested document
type ChatService interface {
	// HandleTurn appends the user message, answers it and persists the conversation
	HandleTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error)

	// GetConversation returns a stored conversation
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
}
