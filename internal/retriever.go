package internal

import (
	"context"
	"fmt"
)

// Retriever embeds a query and returns the contents of the k most similar
// principles, best first.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
	k        int
}

func NewRetriever(embedder Embedder, index VectorIndex, k int) *Retriever {
	if k <= 0 {
		k = 3
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		k:        k,
	}
}

// Retrieve fails with ErrNoRelevantPrinciples when nothing comes back, so an
// empty index aborts the analysis instead of producing an ungrounded
// generation.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.index.Search(ctx, NewEmbedding(vec), r.k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoRelevantPrinciples
	}

	contents := make([]string, len(results))
	for i, res := range results {
		contents[i] = res.Principle.Content
	}
	return contents, nil
}
