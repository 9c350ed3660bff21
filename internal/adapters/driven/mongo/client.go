// Package mongo implements the vector index, conversation store and document
// registry on MongoDB. Vector search uses the Atlas $vectorSearch stage.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	ChunksCollection        = "pdfs"
	ConversationsCollection = "conversations"
	DocumentsCollection     = "documents"
)

// Config holds connection settings
type Config struct {
	URI         string
	Database    string
	VectorIndex string // Atlas vector search index on the chunks collection
	Timeout     time.Duration
}

// Client wraps a connected mongo.Client and the target database
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    Config
}

// Connect dials MongoDB and verifies the primary is reachable
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Database == "" {
		cfg.Database = "PdfAnalyzer"
	}
	if cfg.VectorIndex == "" {
		cfg.VectorIndex = "vector_index"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(cfg.Database), cfg: cfg}, nil
}

// Collection returns a collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping checks the primary is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
