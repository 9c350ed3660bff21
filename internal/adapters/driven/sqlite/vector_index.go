package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/vectors"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex stores embeddings as float32 BLOBs and ranks a document's
// chunks by cosine similarity in process. The scan is exact.
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new VectorIndex
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Insert stores a chunk with its embedding
func (v *VectorIndex) Insert(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.DocumentID == "" || len(chunk.Embedding) == 0 {
		return domain.ErrInvalidInput
	}

	_, err := v.db.ExecContext(ctx, `
		INSERT INTO chunks (id, document_id, content, embedding, position, start_char, end_char, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		chunk.ID,
		chunk.DocumentID,
		chunk.Content,
		vectors.Encode(chunk.Embedding),
		chunk.Position,
		chunk.StartChar,
		chunk.EndChar,
		formatTime(chunk.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Search ranks the chunks of query.DocumentID against query.Vector
func (v *VectorIndex) Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error) {
	query = query.WithDefaults()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT id, document_id, content, embedding, position, start_char, end_char, created_at
		FROM chunks
		WHERE document_id = ?
		ORDER BY position
	`, query.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var hits []*domain.ScoredChunk
	for rows.Next() {
		var (
			chunk     domain.Chunk
			blob      []byte
			createdAt string
		)
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Content,
			&blob,
			&chunk.Position,
			&chunk.StartChar,
			&chunk.EndChar,
			&createdAt,
		); err != nil {
			return nil, err
		}

		embedding, err := vectors.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		score, err := vectors.Cosine(query.Vector, embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}

		chunk.CreatedAt = parseTime(createdAt)
		hits = append(hits, &domain.ScoredChunk{Chunk: &chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vectors.Rank(hits, query.Limit), nil
}

// DeleteByDocument removes every chunk of a document
func (v *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := v.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID)
	return err
}

// CountByDocument returns the number of chunks stored for a document
func (v *VectorIndex) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = ?`, documentID).Scan(&count)
	return count, err
}

// HealthCheck verifies the database is usable
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	return v.db.Ping(ctx)
}
