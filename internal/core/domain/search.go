package domain

// Retrieval defaults
const (
	DefaultNumCandidates = 10
	DefaultSearchLimit   = 5
)

// VectorQuery is a similarity search scoped to a single document
type VectorQuery struct {
	DocumentID    string    `json:"documentId"`
	Vector        []float32 `json:"-"`
	NumCandidates int       `json:"numCandidates"`
	Limit         int       `json:"limit"`
}

// WithDefaults fills unset tunables
func (q VectorQuery) WithDefaults() VectorQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.NumCandidates < q.Limit {
		q.NumCandidates = DefaultNumCandidates
		if q.NumCandidates < q.Limit {
			q.NumCandidates = q.Limit
		}
	}
	return q
}

// Validate checks the query can be executed
func (q VectorQuery) Validate() error {
	if q.DocumentID == "" || len(q.Vector) == 0 {
		return ErrInvalidInput
	}
	return nil
}

// ScoredChunk is a search hit with its similarity score (higher is closer)
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}
