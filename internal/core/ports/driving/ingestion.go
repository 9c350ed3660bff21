package driving

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// IngestionService turns uploaded documents into searchable chunks
type IngestionService interface {
	// Ingest extracts, chunks, embeds and indexes a document under a fresh id
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// GetDocument returns the registry entry of an ingested document
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
}
