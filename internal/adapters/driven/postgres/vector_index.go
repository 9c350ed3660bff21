package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex implements driven.VectorIndex on a pgvector column.
// Search is exact (cosine distance over the document's chunks), so
// NumCandidates has no effect here.
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

	query := `
		INSERT INTO chunks (id, document_id, content, embedding, position, start_char, end_char, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := v.db.ExecContext(ctx, query,
		chunk.ID,
		chunk.DocumentID,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
		chunk.Position,
		chunk.StartChar,
		chunk.EndChar,
		chunk.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Search returns the chunks of query.DocumentID closest to query.Vector
func (v *VectorIndex) Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error) {
	query = query.WithDefaults()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT id, document_id, content, position, start_char, end_char, created_at,
		       1 - (embedding <=> $2) AS score
		FROM chunks
		WHERE document_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`

	rows, err := v.db.QueryContext(ctx, sqlQuery, query.DocumentID, pgvector.NewVector(query.Vector), query.Limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScoredChunk
	for rows.Next() {
		var (
			chunk domain.Chunk
			score float64
		)
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Content,
			&chunk.Position,
			&chunk.StartChar,
			&chunk.EndChar,
			&chunk.CreatedAt,
			&score,
		); err != nil {
			return nil, err
		}
		results = append(results, &domain.ScoredChunk{Chunk: &chunk, Score: score})
	}
	return results, rows.Err()
}

// DeleteByDocument removes every chunk of a document
func (v *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := v.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	return err
}

// CountByDocument returns the number of chunks stored for a document
func (v *VectorIndex) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = $1`, documentID).Scan(&count)
	return count, err
}

// HealthCheck verifies the database is reachable
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	return v.db.Ping(ctx)
}
