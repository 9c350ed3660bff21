package driven

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers document-scoped similarity queries.
// Chunks are immutable once inserted.
type VectorIndex interface {
	// Insert stores a chunk with its embedding
	Insert(ctx context.Context, chunk *domain.Chunk) error

	// Search returns the nearest chunks of query.DocumentID, most similar first.
	// Results never include chunks of other documents.
	Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error)

	// DeleteByDocument removes every chunk of a document
	DeleteByDocument(ctx context.Context, documentID string) error

	// CountByDocument returns the number of chunks stored for a document
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// HealthCheck verifies the index backend is reachable
	HealthCheck(ctx context.Context) error
}
