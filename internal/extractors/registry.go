// Package extractors turns uploaded document bytes into plain text.
package extractors

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractorRegistry = (*Registry)(nil)

// extensionHints refine a generic sniffed type using the filename
var extensionHints = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".pdf":      "application/pdf",
	".txt":      "text/plain",
}

// Registry selects extractors by MIME type; the highest priority match wins.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make([]driven.TextExtractor, 0)}
}

// DefaultRegistry creates a registry with the built-in extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PlainTextExtractor{})
	r.Register(&MarkdownExtractor{})
	r.Register(&HTMLExtractor{})
	r.Register(&PDFExtractor{})
	return r
}

// Detect sniffs the content type of data. Content wins over the filename,
// except that a generic text or binary result is refined by the extension.
func (r *Registry) Detect(data []byte, filename string) string {
	detected := baseType(mimetype.Detect(data).String())

	hint, ok := extensionHints[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return detected
	}
	switch detected {
	case "text/plain", "application/octet-stream":
		return hint
	}
	return detected
}

// Register adds an extractor.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, extractor)
}

// Get returns the best extractor for mimeType, or nil.
func (r *Registry) Get(mimeType string) driven.TextExtractor {
	matches := r.GetAll(mimeType)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// GetAll returns every extractor matching mimeType, highest priority first.
func (r *Registry) GetAll(mimeType string) []driven.TextExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.TextExtractor
	for _, e := range r.extractors {
		if matchesMIMEType(e.SupportedTypes(), mimeType) {
			matches = append(matches, e)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})
	return matches
}

// List returns all registered MIME types, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range r.extractors {
		for _, t := range e.SupportedTypes() {
			seen[t] = struct{}{}
		}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// baseType lowercases a MIME type and strips its parameters
func baseType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// matchesMIMEType reports whether mimeType is covered by supportedTypes.
// "text/*" style wildcards are honoured.
func matchesMIMEType(supportedTypes []string, mimeType string) bool {
	mimeType = baseType(mimeType)
	if mimeType == "" {
		return false
	}

	for _, supported := range supportedTypes {
		supported = baseType(supported)
		if supported == mimeType {
			return true
		}
		if prefix, ok := strings.CutSuffix(supported, "*"); ok && strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}
	}
	return false
}
