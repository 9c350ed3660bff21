package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testChunk(docID string, pos int, vec ...float32) *domain.Chunk {
	return &domain.Chunk{
		ID:         fmt.Sprintf("%s-%d", docID, pos),
		DocumentID: docID,
		Content:    fmt.Sprintf("chunk %d of %s", pos, docID),
		Embedding:  vec,
		Position:   pos,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "docchat.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestVectorIndex_Search(t *testing.T) {
	index := NewVectorIndex(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, testChunk("doc-a", 0, 1, 0)))
	require.NoError(t, index.Insert(ctx, testChunk("doc-a", 1, 0.7, 0.7)))
	require.NoError(t, index.Insert(ctx, testChunk("doc-a", 2, 0, 1)))
	require.NoError(t, index.Insert(ctx, testChunk("doc-b", 0, 1, 0)))

	hits, err := index.Search(ctx, domain.VectorQuery{DocumentID: "doc-a", Vector: []float32{1, 0}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "doc-a-0", hits[0].Chunk.ID)
	assert.Equal(t, "doc-a-1", hits[1].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	for _, hit := range hits {
		assert.Equal(t, "doc-a", hit.Chunk.DocumentID)
	}
}

func TestVectorIndex_Search_DefaultLimit(t *testing.T) {
	index := NewVectorIndex(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, index.Insert(ctx, testChunk("doc", i, float32(i+1), 1)))
	}

	hits, err := index.Search(ctx, domain.VectorQuery{DocumentID: "doc", Vector: []float32{1, 1}})
	require.NoError(t, err)
	assert.Len(t, hits, domain.DefaultSearchLimit)
}

func TestVectorIndex_Search_Invalid(t *testing.T) {
	index := NewVectorIndex(setupTestDB(t))

	_, err := index.Search(context.Background(), domain.VectorQuery{Vector: []float32{1}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestVectorIndex_Insert_Invalid(t *testing.T) {
	index := NewVectorIndex(setupTestDB(t))

	err := index.Insert(context.Background(), &domain.Chunk{ID: "x", DocumentID: "doc"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestVectorIndex_CountAndDelete(t *testing.T) {
	index := NewVectorIndex(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, testChunk("doc-a", 0, 1)))
	require.NoError(t, index.Insert(ctx, testChunk("doc-a", 1, 1)))
	require.NoError(t, index.Insert(ctx, testChunk("doc-b", 0, 1)))

	count, err := index.CountByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, index.DeleteByDocument(ctx, "doc-a"))

	count, err = index.CountByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = index.CountByDocument(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, index.HealthCheck(ctx))
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	doc := &domain.Document{
		ID:         "doc-1",
		Filename:   "handbook.pdf",
		MimeType:   "application/pdf",
		Checksum:   "abc",
		Size:       2048,
		ChunkCount: 3,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.ChunkCount, got.ChunkCount)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))

	doc.ChunkCount = 4
	require.NoError(t, store.Save(ctx, doc))
	got, err = store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.ChunkCount)
}

func TestConversationStore(t *testing.T) {
	store := NewConversationStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	conv, err := store.Create(ctx, domain.NewConversation{})
	require.NoError(t, err)
	assert.Empty(t, conv.DocumentID)

	found, err := store.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Messages)
	assert.NotNil(t, found.Summaries)

	messages := []domain.Message{
		{Role: domain.RoleUser, Content: "What is the leave policy?"},
		{Role: domain.RoleAI, Content: "Twenty days per year."},
	}
	docID := "doc-7"
	updated, err := store.MergeUpdate(ctx, conv.ID, domain.ConversationPatch{Messages: messages, DocumentID: &docID})
	require.NoError(t, err)
	assert.Equal(t, messages, updated.Messages)
	assert.Equal(t, "doc-7", updated.DocumentID)

	found, err = store.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, messages, found.Messages)
	assert.Equal(t, "doc-7", found.DocumentID)
	assert.True(t, conv.CreatedAt.Equal(found.CreatedAt))

	// A patch without messages leaves history alone
	_, err = store.MergeUpdate(ctx, conv.ID, domain.ConversationPatch{})
	require.NoError(t, err)
	found, err = store.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, found.Messages, 2)

	_, err = store.MergeUpdate(ctx, "missing", domain.ConversationPatch{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConversationStore_TaggedHistory(t *testing.T) {
	db := setupTestDB(t)
	store := NewConversationStore(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO conversations (id, messages, summaries, document_id, created_at, updated_at)
		VALUES ('legacy', '[{"type":"human","content":"q"},{"role":"ai","content":"a"}]', '[]', 'doc-1', ?, ?)
	`, formatTime(time.Now()), formatTime(time.Now()))
	require.NoError(t, err)

	conv, err := store.FindByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAI, Content: "a"},
	}, conv.Messages)
}
