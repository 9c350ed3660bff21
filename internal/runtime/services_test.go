package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// mockEmbeddingService is a mock implementation for testing
type mockEmbeddingService struct {
	healthCheckErr error
	closed         bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func (m *mockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return 384
}

func (m *mockEmbeddingService) Model() string {
	return "test-model"
}

func (m *mockEmbeddingService) HealthCheck(ctx context.Context) error {
	return m.healthCheckErr
}

func (m *mockEmbeddingService) Close() error {
	m.closed = true
	return nil
}

// mockChatModel is a mock implementation for testing
type mockChatModel struct {
	pingErr error
	closed  bool
}

func (m *mockChatModel) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	return "ok", nil
}

func (m *mockChatModel) Model() string {
	return "test-chat"
}

func (m *mockChatModel) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockChatModel) Close() error {
	m.closed = true
	return nil
}

func newTestServices() *Services {
	return NewServices(domain.NewRuntimeConfig("memory", "memory", "memory"))
}

func TestNewServices(t *testing.T) {
	config := domain.NewRuntimeConfig("sqlite", "sqlite", "sqlite")
	services := NewServices(config)

	if services == nil {
		t.Fatal("expected non-nil services")
	}
	if services.Config() != config {
		t.Error("expected config to be set")
	}
	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service initially")
	}
	if services.ChatModel() != nil {
		t.Error("expected nil chat model initially")
	}
}

func TestServices_SetEmbeddingService(t *testing.T) {
	services := newTestServices()

	first := &mockEmbeddingService{}
	services.SetEmbeddingService(first)
	if services.EmbeddingService() != first {
		t.Error("expected first embedding service")
	}
	if !services.Config().EmbeddingAvailable() {
		t.Error("expected embedding to be available")
	}

	second := &mockEmbeddingService{}
	services.SetEmbeddingService(second)
	if !first.closed {
		t.Error("expected old service to be closed")
	}
	if services.EmbeddingService() != second {
		t.Error("expected second embedding service")
	}

	services.SetEmbeddingService(nil)
	if services.Config().EmbeddingAvailable() {
		t.Error("expected embedding to be unavailable after nil")
	}
}

func TestServices_SetChatModel(t *testing.T) {
	services := newTestServices()

	first := &mockChatModel{}
	services.SetChatModel(first)
	if services.ChatModel() != first {
		t.Error("expected first chat model")
	}
	if !services.Config().ChatAvailable() {
		t.Error("expected chat to be available")
	}

	services.SetChatModel(&mockChatModel{})
	if !first.closed {
		t.Error("expected old model to be closed")
	}
}

func TestServices_Close(t *testing.T) {
	services := newTestServices()
	embed := &mockEmbeddingService{}
	chat := &mockChatModel{}
	services.SetEmbeddingService(embed)
	services.SetChatModel(chat)

	if err := services.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !embed.closed || !chat.closed {
		t.Error("expected all services to be closed")
	}
	if services.Config().CanIngest() || services.Config().CanChat() {
		t.Error("expected capabilities to be cleared")
	}
}

func TestServices_ValidateAndSetEmbedding(t *testing.T) {
	services := newTestServices()

	failing := &mockEmbeddingService{healthCheckErr: errors.New("unreachable")}
	if err := services.ValidateAndSetEmbedding(context.Background(), failing); err == nil {
		t.Error("expected error for failing health check")
	}
	if !failing.closed {
		t.Error("expected failing service to be closed")
	}
	if services.EmbeddingService() != nil {
		t.Error("expected no service installed")
	}

	healthy := &mockEmbeddingService{}
	if err := services.ValidateAndSetEmbedding(context.Background(), healthy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.EmbeddingService() != healthy {
		t.Error("expected healthy service installed")
	}

	if err := services.ValidateAndSetEmbedding(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.EmbeddingService() != nil {
		t.Error("expected service cleared")
	}
}

func TestServices_ValidateAndSetChat(t *testing.T) {
	services := newTestServices()

	failing := &mockChatModel{pingErr: errors.New("unreachable")}
	if err := services.ValidateAndSetChat(context.Background(), failing); err == nil {
		t.Error("expected error for failing ping")
	}
	if !failing.closed {
		t.Error("expected failing model to be closed")
	}

	healthy := &mockChatModel{}
	if err := services.ValidateAndSetChat(context.Background(), healthy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.ChatModel() != healthy {
		t.Error("expected healthy model installed")
	}
}

func TestServices_ConcurrentAccess(t *testing.T) {
	services := newTestServices()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			services.SetChatModel(&mockChatModel{})
		}()
		go func() {
			defer wg.Done()
			_ = services.ChatModel()
		}()
	}
	wg.Wait()
}
