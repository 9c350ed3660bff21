// Package memory provides process-local implementations of the driven ports.
// Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/vectors"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex keeps chunks grouped by document and scans them on search
type VectorIndex struct {
	mu     sync.RWMutex
	chunks map[string][]*domain.Chunk
}

// NewVectorIndex creates an empty index
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{chunks: make(map[string][]*domain.Chunk)}
}

// Insert stores a copy of the chunk
func (v *VectorIndex) Insert(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.DocumentID == "" || len(chunk.Embedding) == 0 {
		return domain.ErrInvalidInput
	}

	c := *chunk
	c.Embedding = append([]float32(nil), chunk.Embedding...)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.chunks[c.DocumentID] = append(v.chunks[c.DocumentID], &c)
	return nil
}

// Search ranks the document's chunks by cosine similarity
func (v *VectorIndex) Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error) {
	query = query.WithDefaults()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	stored := v.chunks[query.DocumentID]
	hits := make([]*domain.ScoredChunk, 0, len(stored))
	for _, chunk := range stored {
		score, err := vectors.Cosine(query.Vector, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		c := *chunk
		c.Embedding = nil
		hits = append(hits, &domain.ScoredChunk{Chunk: &c, Score: score})
	}
	return vectors.Rank(hits, query.Limit), nil
}

// DeleteByDocument removes every chunk of a document
func (v *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.chunks, documentID)
	return nil
}

// CountByDocument returns the number of chunks stored for a document
func (v *VectorIndex) CountByDocument(ctx context.Context, documentID string) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.chunks[documentID]), nil
}

// HealthCheck always succeeds
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}
