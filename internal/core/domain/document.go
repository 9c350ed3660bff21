package domain

import "time"

// Document is the registry entry for an uploaded document
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename,omitempty"`
	MimeType   string    `json:"mimeType"`
	Checksum   string    `json:"checksum"` // BLAKE2b-256 of the raw upload
	Size       int64     `json:"size"`
	ChunkCount int       `json:"chunkCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Chunk is a retrievable unit of a document's extracted text.
// Chunks are immutable once written to the vector index.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Position   int       `json:"position"` // Chunk position within document
	StartChar  int       `json:"startChar"`
	EndChar    int       `json:"endChar"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IngestResult is returned by a successful ingestion
type IngestResult struct {
	DocumentID string `json:"documentId"`
	ChunkCount int    `json:"chunkCount"`
}

// IngestRequest carries an uploaded document
type IngestRequest struct {
	Filename string
	Data     []byte
}
