package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedMessage indicates a message value matches no known shape
	ErrUnsupportedMessage = errors.New("unsupported message format")

	// ErrUnsupportedMediaType indicates no text extractor handles the document type
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrIngestionFailed indicates a document could not be fully indexed
	ErrIngestionFailed = errors.New("ingestion failed")

	// ErrGenerationFailed indicates the chat model did not produce a reply
	ErrGenerationFailed = errors.New("generation failed")

	// ErrConversationBusy indicates another turn holds the conversation lock
	ErrConversationBusy = errors.New("conversation busy")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// UnsupportedMessageError reports the message value normalization could not classify.
type UnsupportedMessageError struct {
	Index int
	Value any
}

func (e *UnsupportedMessageError) Error() string {
	data, err := json.Marshal(e.Value)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", e.Value))
	}
	return fmt.Sprintf("%s at index %d: %s", ErrUnsupportedMessage, e.Index, data)
}

func (e *UnsupportedMessageError) Unwrap() error {
	return ErrUnsupportedMessage
}

// IngestionError reports the chunk at which ingestion was aborted.
type IngestionError struct {
	DocumentID string
	Position   int
	Err        error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%s: document %s chunk %d: %v", ErrIngestionFailed, e.DocumentID, e.Position, e.Err)
}

func (e *IngestionError) Unwrap() []error {
	return []error{ErrIngestionFailed, e.Err}
}

// GenerationError wraps a chat model failure with the conversation it happened in.
// Transport layers turn it into a degraded reply.
type GenerationError struct {
	ConversationID string
	Err            error
}

func (e *GenerationError) Error() string {
	if e.ConversationID == "" {
		return fmt.Sprintf("%s: %v", ErrGenerationFailed, e.Err)
	}
	return fmt.Sprintf("%s: conversation %s: %v", ErrGenerationFailed, e.ConversationID, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}
