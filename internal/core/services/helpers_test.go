package services

import (
	"io"
	"log/slog"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sercha-docchat/internal/runtime"
)

// createTestServices creates runtime services for testing.
// Nil arguments leave the corresponding service unset.
func createTestServices(embeddingService *mocks.MockEmbeddingService, chatModel *mocks.MockChatModel) *runtime.Services {
	config := domain.NewRuntimeConfig("memory", "memory", "memory")
	services := runtime.NewServices(config)
	if embeddingService != nil {
		services.SetEmbeddingService(embeddingService)
	}
	if chatModel != nil {
		services.SetChatModel(chatModel)
	}
	return services
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
