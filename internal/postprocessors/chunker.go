package postprocessors

import (
	"unicode/utf8"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// DefaultChunkSize is the number of characters per chunk
const DefaultChunkSize = 1000

// FixedSizeChunker splits text into consecutive runs of Size characters.
// Boundaries are positional: no overlap, no trimming, line breaks count as
// characters. Only the last chunk may be shorter. Offsets are in runes.
type FixedSizeChunker struct {
	Size int
}

// Verify interface compliance
var _ driven.PostProcessor = (*FixedSizeChunker)(nil)

// NewFixedSizeChunker creates a chunker of the given size.
func NewFixedSizeChunker(size int) *FixedSizeChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedSizeChunker{Size: size}
}

// Process splits every incoming chunk and renumbers positions across the output.
func (c *FixedSizeChunker) Process(chunks []driven.Chunk) []driven.Chunk {
	result := make([]driven.Chunk, 0)
	position := 0

	for _, chunk := range chunks {
		for _, piece := range Split(chunk.Content, c.Size) {
			result = append(result, driven.Chunk{
				Content:     piece.Content,
				Position:    position,
				StartOffset: chunk.StartOffset + piece.StartOffset,
				EndOffset:   chunk.StartOffset + piece.EndOffset,
			})
			position++
		}
	}

	return result
}

// Name returns the processor name.
func (c *FixedSizeChunker) Name() string {
	return "fixed-size-chunker"
}

// Order returns 0 - chunker should be first.
func (c *FixedSizeChunker) Order() int {
	return 0
}

// Split cuts text into pieces of at most size runes.
// Empty text yields no pieces. Concatenating the pieces gives back text.
func Split(text string, size int) []driven.Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}

	pieces := make([]driven.Chunk, 0, runeCount(text)/size+1)
	start, startRune := 0, 0
	for start < len(text) {
		end, n := start, 0
		for end < len(text) && n < size {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
			n++
		}
		pieces = append(pieces, driven.Chunk{
			Content:     text[start:end],
			Position:    len(pieces),
			StartOffset: startRune,
			EndOffset:   startRune + n,
		})
		start = end
		startRune += n
	}
	return pieces
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
