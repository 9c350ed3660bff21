package driven

import (
	"context"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// DocumentStore is the registry of ingested documents
type DocumentStore interface {
	// Save creates or updates a document
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	// Returns domain.ErrNotFound when the document is unknown
	Get(ctx context.Context, id string) (*domain.Document, error)
}
