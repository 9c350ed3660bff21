package postprocessors

import (
	"strings"
	"testing"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// upperProcessor is a test processor that runs after the chunker
type upperProcessor struct{}

func (upperProcessor) Process(chunks []driven.Chunk) []driven.Chunk {
	out := make([]driven.Chunk, len(chunks))
	for i, c := range chunks {
		c.Content = strings.ToUpper(c.Content)
		out[i] = c
	}
	return out
}

func (upperProcessor) Name() string { return "upper" }
func (upperProcessor) Order() int   { return 10 }

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if len(p.processors) != 0 {
		t.Errorf("expected empty processors, got %d", len(p.processors))
	}
}

func TestPipeline_OrdersProcessors(t *testing.T) {
	p := NewPipeline()
	p.Add(upperProcessor{})
	p.Add(NewFixedSizeChunker(4))

	chunks := p.Process("abcdefg")

	names := p.List()
	if len(names) != 2 || names[0] != "fixed-size-chunker" || names[1] != "upper" {
		t.Errorf("unexpected processor order %v", names)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "ABCD" || chunks[1].Content != "EFG" {
		t.Errorf("unexpected chunks %+v", chunks)
	}
}

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline(0)

	names := p.List()
	if len(names) != 1 || names[0] != "fixed-size-chunker" {
		t.Errorf("expected only the chunker, got %v", names)
	}

	chunks := p.Process(strings.Repeat("x", 2500))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantLens := []int{1000, 1000, 500}
	for i, c := range chunks {
		if len(c.Content) != wantLens[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, wantLens[i], len(c.Content))
		}
		if c.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, c.Position)
		}
	}
}

func TestPipeline_Process_EmptyContent(t *testing.T) {
	chunks := DefaultPipeline(1000).Process("")
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
