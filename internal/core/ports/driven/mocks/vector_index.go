package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// MockVectorIndex is a mock implementation of VectorIndex for testing.
// Search scores by dot product, which is enough to order deterministic mock vectors.
type MockVectorIndex struct {
	mu      sync.RWMutex
	byDoc   map[string][]*domain.Chunk
	queries []domain.VectorQuery

	// Hooks (optional)
	InsertFn func(chunk *domain.Chunk) error
	SearchFn func(query domain.VectorQuery) ([]*domain.ScoredChunk, error)
	DeleteFn func(documentID string) error
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		byDoc: make(map[string][]*domain.Chunk),
	}
}

func (m *MockVectorIndex) Insert(ctx context.Context, chunk *domain.Chunk) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(chunk); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDoc[chunk.DocumentID] = append(m.byDoc[chunk.DocumentID], chunk)
	return nil
}

func (m *MockVectorIndex) Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(query)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*domain.ScoredChunk, 0)
	for _, chunk := range m.byDoc[query.DocumentID] {
		results = append(results, &domain.ScoredChunk{Chunk: chunk, Score: dot(chunk.Embedding, query.Vector)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

func (m *MockVectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	if m.DeleteFn != nil {
		if err := m.DeleteFn(documentID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byDoc, documentID)
	return nil
}

func (m *MockVectorIndex) CountByDocument(ctx context.Context, documentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byDoc[documentID]), nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

// Helper methods for testing

// Chunks returns the chunks stored for a document
func (m *MockVectorIndex) Chunks(documentID string) []*domain.Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Chunk(nil), m.byDoc[documentID]...)
}

// Queries returns every search query received
func (m *MockVectorIndex) Queries() []domain.VectorQuery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.VectorQuery(nil), m.queries...)
}

// Total returns the number of chunks across all documents
func (m *MockVectorIndex) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, chunks := range m.byDoc {
		n += len(chunks)
	}
	return n
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
