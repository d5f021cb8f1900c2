package internal

import "context"

type Embedding struct {
	Vector    []float32
	Dimension int
}

func NewEmbedding(vec []float32) Embedding {
	return Embedding{
		Vector:    vec,
		Dimension: len(vec),
	}
}

type SearchResult struct {
	Principle Principle
	Score     float32 // 0-1, higher is better
}

// VectorIndex maps embeddings back to the principles they came from.
// Insertion order is preserved; Build is called once after the last Add and
// again whenever the index is rebuilt from scratch.
type VectorIndex interface {
	Add(ctx context.Context, p Principle, emb Embedding) error
	Build(ctx context.Context) error
	Search(ctx context.Context, query Embedding, k int) ([]SearchResult, error)
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	Len() int
}
