package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using SQLite
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, mime_type, checksum, size, chunk_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			mime_type = excluded.mime_type,
			checksum = excluded.checksum,
			size = excluded.size,
			chunk_count = excluded.chunk_count
	`,
		doc.ID,
		doc.Filename,
		doc.MimeType,
		doc.Checksum,
		doc.Size,
		doc.ChunkCount,
		formatTime(doc.CreatedAt),
	)
	return err
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	var (
		doc       domain.Document
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, mime_type, checksum, size, chunk_count, created_at
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.MimeType, &doc.Checksum, &doc.Size, &doc.ChunkCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = parseTime(createdAt)
	return &doc, nil
}
