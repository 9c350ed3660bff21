package driven

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// ConversationStore persists conversations between turns
type ConversationStore interface {
	// FindByID retrieves a conversation
	// Returns domain.ErrNotFound when no conversation has the id
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)

	// Create stores a new empty conversation with a fresh id and timestamps
	Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error)

	// MergeUpdate replaces only the fields present in the patch and bumps UpdatedAt.
	// Returns the stored conversation after the update.
	MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error)

	// Ping checks if the store backend is healthy
	Ping(ctx context.Context) error
}
