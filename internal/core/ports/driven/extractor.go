package driven

import (
	"context"
)

// TextExtractor turns raw document bytes into plain text.
// Output is passed to chunking untouched, so extractors must not trim it.
type TextExtractor interface {
	// Extract returns the document text.
	// The mimeType is the detected type of data.
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)

	// SupportedTypes returns MIME types this extractor handles.
	// Can include wildcards like "text/*" or specific types like "application/pdf".
	SupportedTypes() []string

	// Priority returns the extractor priority (higher = more specific).
	//   50-89: Format-specific (PDF, Markdown, HTML)
	//   10-49: Generic text
	Priority() int
}

// ExtractorRegistry selects a TextExtractor by MIME type.
// When multiple extractors match, the highest priority one is used.
type ExtractorRegistry interface {
	// Detect sniffs the MIME type of raw bytes, using filename as a hint
	Detect(data []byte, filename string) string

	// Get retrieves the best-matching extractor for a MIME type.
	// Returns nil if no extractor is registered for the type.
	Get(mimeType string) TextExtractor

	// GetAll retrieves all extractors that match a MIME type, sorted by priority (highest first).
	GetAll(mimeType string) []TextExtractor

	// Register registers an extractor.
	Register(extractor TextExtractor)

	// List returns all registered MIME types.
	List() []string
}

// PostProcessor applies post-processing to document content or chunks.
type PostProcessor interface {
	// Process applies post-processing to content chunks.
	// The first processor (the chunker) receives a single chunk with the full content.
	Process(chunks []Chunk) []Chunk

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the processor order in the pipeline (lower = earlier).
	Order() int
}

// Chunk is a piece of document text moving through the post-processor pipeline.
type Chunk struct {
	// Content is the text content of the chunk
	Content string

	// Position is the chunk index within the document (0-based)
	Position int

	// StartOffset is the character offset from document start
	StartOffset int

	// EndOffset is the character offset for chunk end
	EndOffset int
}

// PostProcessorPipeline chains multiple post-processors in order.
type PostProcessorPipeline interface {
	// Process applies all processors in order to the raw document text.
	Process(content string) []Chunk

	// Add adds a processor to the pipeline.
	Add(processor PostProcessor)

	// List returns processor names in order.
	List() []string
}
