package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

const (
	AnnoyIndexFilename = "index.ann"
	AnnoyDocsFilename  = "principles.json"
)

var _ VectorIndex = (*AnnoyIndex)(nil)

// AnnoyIndex is the approximate backend for large corpora, selected with
// index.backend: annoy. Angular distance over annoy trees; it does not honor
// the insertion-order tie-break the flat backend guarantees.
type AnnoyIndex struct {
	mu        sync.RWMutex
	idx       interfaces.AnnoyIndex[float32, uint32]
	dimension int
	trees     int
	basePath  string
	docs      []Principle
	built     bool
}

type annoyDocs struct {
	Dimension  int      `json:"dimension"`
	Principles []string `json:"principles"`
}

func NewAnnoyIndex(basePath string, dimension, trees int) (*AnnoyIndex, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("annoy backend needs a fixed embedding dimension")
	}
	if trees <= 0 {
		trees = 10
	}

	idx := builder.Index[float32, uint32]().
		AngularDistance(dimension).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()

	return &AnnoyIndex{
		idx:       idx,
		dimension: dimension,
		trees:     trees,
		basePath:  basePath,
	}, nil
}

func (a *AnnoyIndex) Add(ctx context.Context, p Principle, emb Embedding) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(emb.Vector) != a.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(emb.Vector))
	}

	id := uint32(len(a.docs))
	a.idx.AddItem(id, emb.Vector)
	a.docs = append(a.docs, p)
	a.built = false
	return nil
}

func (a *AnnoyIndex) Build(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.idx.Build(a.trees, -1)
	a.built = true
	return nil
}

func (a *AnnoyIndex) Search(ctx context.Context, query Embedding, k int) ([]SearchResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.built {
		return nil, fmt.Errorf("index not built")
	}
	if len(query.Vector) != a.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(query.Vector))
	}

	if k > len(a.docs) {
		k = len(a.docs)
	}
	if k <= 0 {
		return nil, nil
	}

	searchCtx := a.idx.CreateContext()
	ids, distances := a.idx.GetNnsByVector(query.Vector, k, -1, searchCtx)

	results := make([]SearchResult, 0, len(ids))
	for i, id := range ids {
		if int(id) >= len(a.docs) {
			continue
		}

		// Angular distance is in [0, 2]; score = 1 - dist/2.
		var score float32
		if i < len(distances) {
			score = 1.0 - distances[i]/2.0
		}

		results = append(results, SearchResult{
			Principle: a.docs[id],
			Score:     score,
		})
	}

	return results, nil
}

func (a *AnnoyIndex) Save(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	indexPath := filepath.Join(a.basePath, AnnoyIndexFilename)
	if err := a.idx.Save(indexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	contents := make([]string, len(a.docs))
	for i, d := range a.docs {
		contents[i] = d.Content
	}
	data, err := json.Marshal(annoyDocs{Dimension: a.dimension, Principles: contents})
	if err != nil {
		return fmt.Errorf("marshal principles: %w", err)
	}

	docsPath := filepath.Join(a.basePath, AnnoyDocsFilename)
	if err := os.WriteFile(docsPath, data, 0644); err != nil {
		return fmt.Errorf("write principles: %w", err)
	}
	return nil
}

func (a *AnnoyIndex) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	docsPath := filepath.Join(a.basePath, AnnoyDocsFilename)
	data, err := os.ReadFile(docsPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, docsPath)
	}
	if err != nil {
		return fmt.Errorf("read principles: %w", err)
	}

	var stored annoyDocs
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexLoad, err)
	}
	if stored.Dimension != a.dimension {
		return fmt.Errorf("%w: stored dimension %d, configured %d", ErrIndexLoad, stored.Dimension, a.dimension)
	}

	indexPath := filepath.Join(a.basePath, AnnoyIndexFilename)
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, indexPath)
	}
	if err := a.idx.Load(indexPath); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexLoad, err)
	}

	docs := make([]Principle, len(stored.Principles))
	for i, c := range stored.Principles {
		docs[i] = Principle{Content: c}
	}
	a.docs = docs
	a.built = true
	return nil
}

func (a *AnnoyIndex) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.docs)
}
