package driven

import (
	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// AIServiceFactory creates AI services based on configuration
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateChatModel creates a chat model from settings
	// Returns nil, nil if settings are not configured
	CreateChatModel(settings *domain.ChatSettings) (ChatModel, error)
}
