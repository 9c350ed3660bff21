package runtime

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Services holds the AI services used by ingestion and chat.
// Either handle may be swapped while requests are in flight; readers always
// get a consistent snapshot of the current one.
type Services struct {
	mu sync.RWMutex

	config *domain.RuntimeConfig

	embeddingService driven.EmbeddingService
	chatModel        driven.ChatModel
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embeddingService
}

// ChatModel returns the current chat model (may be nil)
func (s *Services) ChatModel() driven.ChatModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatModel
}

// SetEmbeddingService replaces the embedding service, closing the old one.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
	}

	s.embeddingService = svc
	s.config.SetEmbeddingAvailable(svc != nil)
}

// SetChatModel replaces the chat model, closing the old one.
func (s *Services) SetChatModel(model driven.ChatModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chatModel != nil {
		_ = s.chatModel.Close()
	}

	s.chatModel = model
	s.config.SetChatAvailable(model != nil)
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
		s.embeddingService = nil
	}
	if s.chatModel != nil {
		_ = s.chatModel.Close()
		s.chatModel = nil
	}

	s.config.SetEmbeddingAvailable(false)
	s.config.SetChatAvailable(false)

	return nil
}

// ValidateAndSetEmbedding checks connectivity before installing the embedding service
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}

	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetChat checks connectivity before installing the chat model
func (s *Services) ValidateAndSetChat(ctx context.Context, model driven.ChatModel) error {
	if model == nil {
		s.SetChatModel(nil)
		return nil
	}

	if err := model.Ping(ctx); err != nil {
		_ = model.Close()
		return err
	}

	s.SetChatModel(model)
	return nil
}
