package driven

import (
	"context"
	"fmt"
)

// EmbeddingService turns chunk text and chat questions into vectors for
// the vector index. Every vector it returns must have Dimensions entries,
// and chunks indexed with one model are only searchable with that model.
type EmbeddingService interface {
	// Embed returns one vector per text, in order. Used at ingestion.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds the latest user message for retrieval
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions is the vector length the index was built for
	Dimensions() int

	// Model names the embedding model, recorded in logs
	Model() string

	HealthCheck(ctx context.Context) error
	Close() error
}

// EmbedChunk embeds a single chunk and checks the provider returned exactly
// one vector of the advertised length.
func EmbedChunk(ctx context.Context, svc EmbeddingService, text string) ([]float32, error) {
	vectors, err := svc.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 vector, got %d", len(vectors))
	}
	if dims := svc.Dimensions(); dims > 0 && len(vectors[0]) != dims {
		return nil, fmt.Errorf("%s returned %d dimensions, expected %d", svc.Model(), len(vectors[0]), dims)
	}
	return vectors[0], nil
}
