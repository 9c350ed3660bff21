package driven_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven/mocks"
)

// fixedEmbedder returns the configured vectors regardless of input
type fixedEmbedder struct {
	*mocks.MockEmbeddingService
	vectors [][]float32
	err     error
}

func (f *fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f.vectors, f.err
}

func TestEmbedChunk(t *testing.T) {
	svc := mocks.NewMockEmbeddingService()
	svc.SetDimensions(8)

	vector, err := driven.EmbedChunk(context.Background(), svc, "chunk text")
	require.NoError(t, err)
	assert.Len(t, vector, 8)
}

func TestEmbedChunk_Rejects(t *testing.T) {
	boom := errors.New("provider down")

	tests := []struct {
		name    string
		vectors [][]float32
		err     error
		wantErr string
	}{
		{name: "provider error", err: boom, wantErr: "provider down"},
		{name: "no vectors", vectors: nil, wantErr: "expected 1 vector, got 0"},
		{name: "too many vectors", vectors: [][]float32{{1, 2, 3}, {1, 2, 3}}, wantErr: "expected 1 vector, got 2"},
		{name: "wrong dimensions", vectors: [][]float32{{1, 2}}, wantErr: "returned 2 dimensions, expected 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := mocks.NewMockEmbeddingService()
			mock.SetDimensions(3)
			svc := &fixedEmbedder{MockEmbeddingService: mock, vectors: tt.vectors, err: tt.err}

			_, err := driven.EmbedChunk(context.Background(), svc, "chunk text")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
