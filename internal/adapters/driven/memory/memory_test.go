package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func TestVectorIndex(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	chunks := []*domain.Chunk{
		{ID: "a0", DocumentID: "doc-a", Content: "alpha", Embedding: []float32{1, 0}},
		{ID: "a1", DocumentID: "doc-a", Content: "beta", Embedding: []float32{0, 1}},
		{ID: "b0", DocumentID: "doc-b", Content: "gamma", Embedding: []float32{1, 0}},
	}
	for _, c := range chunks {
		require.NoError(t, index.Insert(ctx, c))
	}

	// Stored chunks are copies
	chunks[0].Content = "mutated"

	hits, err := index.Search(ctx, domain.VectorQuery{DocumentID: "doc-a", Vector: []float32{0.9, 0.1}})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "alpha", hits[0].Chunk.Content)
	assert.Equal(t, "beta", hits[1].Chunk.Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)

	count, err := index.CountByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, index.DeleteByDocument(ctx, "doc-a"))
	hits, err = index.Search(ctx, domain.VectorQuery{DocumentID: "doc-a", Vector: []float32{1, 0}})
	require.NoError(t, err)
	assert.Empty(t, hits)

	count, err = index.CountByDocument(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_InvalidInput(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	assert.True(t, errors.Is(index.Insert(ctx, &domain.Chunk{ID: "x"}), domain.ErrInvalidInput))

	_, err := index.Search(ctx, domain.VectorQuery{DocumentID: "doc"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestConversationStore(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	_, err := store.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	conv, err := store.Create(ctx, domain.NewConversation{DocumentID: "doc-1"})
	require.NoError(t, err)

	// Mutating a returned value does not touch the store
	conv.Messages = append(conv.Messages, domain.Message{Role: domain.RoleUser, Content: "x"})
	found, err := store.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Messages)

	msgs := []domain.Message{{Role: domain.RoleUser, Content: "q"}, {Role: domain.RoleAI, Content: "a"}}
	updated, err := store.MergeUpdate(ctx, conv.ID, domain.ConversationPatch{Messages: msgs})
	require.NoError(t, err)
	assert.Equal(t, msgs, updated.Messages)
	assert.Equal(t, "doc-1", updated.DocumentID)

	_, err = store.MergeUpdate(ctx, "missing", domain.ConversationPatch{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "doc-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.Save(ctx, &domain.Document{ID: "doc-1", ChunkCount: 2}))
	doc, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.ChunkCount)
}

func TestLock(t *testing.T) {
	lock := NewLock()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lock.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "conversation:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "conversation:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held lock is not reentrant")

	require.NoError(t, lock.Extend(ctx, "conversation:1", 2*time.Minute))

	now = now.Add(90 * time.Second)
	ok, _ = lock.Acquire(ctx, "conversation:1", time.Minute)
	assert.False(t, ok, "extended lock still held")

	now = now.Add(time.Minute)
	ok, _ = lock.Acquire(ctx, "conversation:1", time.Minute)
	assert.True(t, ok, "expired lock can be taken")

	require.NoError(t, lock.Release(ctx, "conversation:1"))
	assert.Error(t, lock.Extend(ctx, "conversation:1", time.Minute))
	assert.NoError(t, lock.Ping(ctx))
}
