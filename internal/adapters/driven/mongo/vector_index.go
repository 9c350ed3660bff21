package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// chunkDocument is the stored shape of a chunk. pdfId is the document id.
type chunkDocument struct {
	ChunkID    string    `bson:"chunkId"`
	DocumentID string    `bson:"pdfId"`
	Content    string    `bson:"content"`
	Vector     []float32 `bson:"vector"`
	Position   int       `bson:"position"`
	StartChar  int       `bson:"startChar"`
	EndChar    int       `bson:"endChar"`
	CreatedAt  time.Time `bson:"createdAt"`
	Score      float64   `bson:"score,omitempty"`
}

// VectorIndex implements driven.VectorIndex with Atlas vector search.
// The search index must declare pdfId as a filter field.
type VectorIndex struct {
	coll      *mongo.Collection
	indexName string
}

// NewVectorIndex creates a VectorIndex on the chunks collection
func NewVectorIndex(c *Client) *VectorIndex {
	return &VectorIndex{coll: c.Collection(ChunksCollection), indexName: c.cfg.VectorIndex}
}

// Insert stores a chunk with its embedding
func (v *VectorIndex) Insert(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.DocumentID == "" || len(chunk.Embedding) == 0 {
		return domain.ErrInvalidInput
	}

	_, err := v.coll.InsertOne(ctx, chunkDocument{
		ChunkID:    chunk.ID,
		DocumentID: chunk.DocumentID,
		Content:    chunk.Content,
		Vector:     chunk.Embedding,
		Position:   chunk.Position,
		StartChar:  chunk.StartChar,
		EndChar:    chunk.EndChar,
		CreatedAt:  chunk.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Search runs $vectorSearch restricted to query.DocumentID
func (v *VectorIndex) Search(ctx context.Context, query domain.VectorQuery) ([]*domain.ScoredChunk, error) {
	query = query.WithDefaults()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cursor, err := v.coll.Aggregate(ctx, searchPipeline(v.indexName, query))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []chunkDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]*domain.ScoredChunk, 0, len(docs))
	for _, d := range docs {
		results = append(results, &domain.ScoredChunk{
			Chunk: &domain.Chunk{
				ID:         d.ChunkID,
				DocumentID: d.DocumentID,
				Content:    d.Content,
				Position:   d.Position,
				StartChar:  d.StartChar,
				EndChar:    d.EndChar,
				CreatedAt:  d.CreatedAt,
			},
			Score: d.Score,
		})
	}
	return results, nil
}

// searchPipeline builds the aggregation for a document-scoped vector query
func searchPipeline(indexName string, query domain.VectorQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: indexName},
			{Key: "path", Value: "vector"},
			{Key: "queryVector", Value: query.Vector},
			{Key: "numCandidates", Value: query.NumCandidates},
			{Key: "limit", Value: query.Limit},
			{Key: "filter", Value: bson.D{{Key: "pdfId", Value: query.DocumentID}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "vector", Value: 0},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

// DeleteByDocument removes every chunk of a document
func (v *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := v.coll.DeleteMany(ctx, bson.D{{Key: "pdfId", Value: documentID}})
	return err
}

// CountByDocument returns the number of chunks stored for a document
func (v *VectorIndex) CountByDocument(ctx context.Context, documentID string) (int, error) {
	n, err := v.coll.CountDocuments(ctx, bson.D{{Key: "pdfId", Value: documentID}})
	return int(n), err
}

// HealthCheck pings the deployment
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	return v.coll.Database().Client().Ping(ctx, nil)
}
