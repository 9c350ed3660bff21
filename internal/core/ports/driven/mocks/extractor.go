package mocks

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// MockExtractorRegistry returns the input bytes as text for a fixed MIME type
type MockExtractorRegistry struct {
	MimeType  string
	Extractor driven.TextExtractor
}

// NewMockExtractorRegistry creates a registry that treats every upload as text/plain
func NewMockExtractorRegistry() *MockExtractorRegistry {
	return &MockExtractorRegistry{
		MimeType:  "text/plain",
		Extractor: &MockTextExtractor{},
	}
}

func (r *MockExtractorRegistry) Detect(data []byte, filename string) string {
	return r.MimeType
}

func (r *MockExtractorRegistry) Get(mimeType string) driven.TextExtractor {
	if r.Extractor == nil || !strings.EqualFold(mimeType, r.MimeType) {
		return nil
	}
	return r.Extractor
}

func (r *MockExtractorRegistry) GetAll(mimeType string) []driven.TextExtractor {
	if ex := r.Get(mimeType); ex != nil {
		return []driven.TextExtractor{ex}
	}
	return nil
}

func (r *MockExtractorRegistry) Register(extractor driven.TextExtractor) {
	r.Extractor = extractor
}

func (r *MockExtractorRegistry) List() []string {
	return []string{r.MimeType}
}

// MockTextExtractor returns the raw bytes as a string, or Err when set
type MockTextExtractor struct {
	Err error
}

func (e *MockTextExtractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return string(data), nil
}

func (e *MockTextExtractor) SupportedTypes() []string {
	return []string{"text/plain"}
}

func (e *MockTextExtractor) Priority() int {
	return 10
}
