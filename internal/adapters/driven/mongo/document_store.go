package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using MongoDB
type DocumentStore struct {
	coll *mongo.Collection
}

// NewDocumentStore creates a DocumentStore on the documents collection
func NewDocumentStore(c *Client) *DocumentStore {
	return &DocumentStore{coll: c.Collection(DocumentsCollection)}
}

// Save upserts a document keyed by its id
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, documentBSON(doc), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	var stored storedDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return stored.toDomain(), nil
}

type storedDocument struct {
	ID         string    `bson:"_id"`
	Filename   string    `bson:"filename"`
	MimeType   string    `bson:"mimeType"`
	Checksum   string    `bson:"checksum"`
	Size       int64     `bson:"size"`
	ChunkCount int       `bson:"chunkCount"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func documentBSON(doc *domain.Document) storedDocument {
	return storedDocument{
		ID:         doc.ID,
		Filename:   doc.Filename,
		MimeType:   doc.MimeType,
		Checksum:   doc.Checksum,
		Size:       doc.Size,
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt,
	}
}

func (d storedDocument) toDomain() *domain.Document {
	return &domain.Document{
		ID:         d.ID,
		Filename:   d.Filename,
		MimeType:   d.MimeType,
		Checksum:   d.Checksum,
		Size:       d.Size,
		ChunkCount: d.ChunkCount,
		CreatedAt:  d.CreatedAt,
	}
}
