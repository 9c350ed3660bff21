package vectors

import (
	"errors"
	"math"
	"testing"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func TestEncodeDecode(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, float32(math.Pi)}

	got, err := Decode(Encode(vec))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != len(vec) {
		t.Fatalf("len = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vec[i])
		}
	}
}

func TestDecode_InvalidLength(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for a blob that is not a multiple of 4")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero magnitude", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Cosine() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRank(t *testing.T) {
	hit := func(id string, score float64) *domain.ScoredChunk {
		return &domain.ScoredChunk{Chunk: &domain.Chunk{ID: id}, Score: score}
	}
	hits := []*domain.ScoredChunk{hit("a", 0.1), hit("b", 0.9), hit("c", 0.5), hit("d", 0.9)}

	got := Rank(hits, 3)
	want := []string{"b", "d", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].Chunk.ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Chunk.ID, id)
		}
	}
}
