package internal

import (
	"context"
	"errors"
	"testing"
)

func newTestIndex(t *testing.T) *FlatIndex {
	t.Helper()
	idx, err := NewFlatIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	return idx
}

func TestRetrieverTopK(t *testing.T) {
	embedder := newStubEmbedder(3, map[string][]float32{
		"query": {1, 0, 0},
	})
	idx := newTestIndex(t)
	addAll(t, idx,
		[]string{"close match", "far match", "exact match", "orthogonal"},
		[][]float32{{0.9, 0.1, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 1}},
	)

	r := NewRetriever(embedder, idx, 2)
	got, err := r.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	want := []string{"exact match", "close match"}
	if len(got) != len(want) {
		t.Fatalf("got %d principles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRetrieverSingleEntryCorpus(t *testing.T) {
	// A one-rule corpus with k=3 returns exactly that rule, never padding.
	embedder := newStubEmbedder(3, map[string][]float32{"q": {1, 0, 0}})
	idx := newTestIndex(t)
	addAll(t, idx, []string{"only rule"}, [][]float32{{0.5, 0.5, 0}})

	r := NewRetriever(embedder, idx, 3)
	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(got) != 1 || got[0] != "only rule" {
		t.Errorf("got %v, want exactly the single rule", got)
	}
}

func TestRetrieverEmptyIndex(t *testing.T) {
	embedder := newStubEmbedder(3, nil)
	r := NewRetriever(embedder, newTestIndex(t), 3)

	_, err := r.Retrieve(context.Background(), "anything")
	if !errors.Is(err, ErrNoRelevantPrinciples) {
		t.Fatalf("err = %v, want ErrNoRelevantPrinciples", err)
	}
}

func TestRetrieverDefaultK(t *testing.T) {
	r := NewRetriever(newStubEmbedder(3, nil), newTestIndex(t), 0)
	if r.k != 3 {
		t.Errorf("k = %d, want default 3", r.k)
	}
}
