package driven

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// ChatModel produces the assistant reply for an ordered prompt
type ChatModel interface {
	// Generate returns the text of the next ai message.
	// Messages are sent in the given order.
	Generate(ctx context.Context, messages []domain.Message) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the chat model is available
	Ping(ctx context.Context) error

	// Close releases resources held by the chat model
	Close() error
}
