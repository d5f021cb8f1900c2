package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	FlatFilename = "index.json"
	flatFormat   = "vigraha-flat"
	flatMetric   = "cosine"
)

var _ VectorIndex = (*FlatIndex)(nil)

// FlatIndex is the default index backend: exact cosine similarity between the
// query and every stored vector, ranked descending. Ties break on corpus
// insertion order, so a fixed index and query always produce the same ranking.
type FlatIndex struct {
	mu        sync.RWMutex
	dimension int
	basePath  string
	docs      []Principle
	vectors   [][]float32
}

type flatSnapshot struct {
	Format     string      `json:"format"`
	Metric     string      `json:"metric"`
	Dimension  int         `json:"dimension"`
	Principles []string    `json:"principles"`
	Vectors    [][]float32 `json:"vectors"`
}

// NewFlatIndex creates an empty index persisted under basePath. A zero
// dimension is pinned by the first vector added.
func NewFlatIndex(basePath string, dimension int) (*FlatIndex, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	return &FlatIndex{
		dimension: dimension,
		basePath:  basePath,
	}, nil
}

func (f *FlatIndex) Add(ctx context.Context, p Principle, emb Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == 0 {
		f.dimension = len(emb.Vector)
	}
	if len(emb.Vector) != f.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", f.dimension, len(emb.Vector))
	}

	vec := make([]float32, len(emb.Vector))
	copy(vec, emb.Vector)

	f.docs = append(f.docs, p)
	f.vectors = append(f.vectors, vec)
	return nil
}

// Build is a no-op; the flat index is always searchable.
func (f *FlatIndex) Build(ctx context.Context) error {
	return nil
}

func (f *FlatIndex) Search(ctx context.Context, query Embedding, k int) ([]SearchResult, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.vectors) > 0 && len(query.Vector) != f.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", f.dimension, len(query.Vector))
	}

	if k > len(f.vectors) {
		k = len(f.vectors)
	}
	if k <= 0 {
		return nil, nil
	}

	order := make([]int, len(f.vectors))
	scores := make([]float32, len(f.vectors))
	for i := range f.vectors {
		order[i] = i
		scores[i] = cosineSimilarity(f.vectors[i], query.Vector)
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]SearchResult, 0, k)
	for _, idx := range order[:k] {
		results = append(results, SearchResult{
			Principle: f.docs[idx],
			Score:     scores[idx],
		})
	}
	return results, nil
}

func (f *FlatIndex) Save(ctx context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	contents := make([]string, len(f.docs))
	for i, d := range f.docs {
		contents[i] = d.Content
	}
	snap := flatSnapshot{
		Format:     flatFormat,
		Metric:     flatMetric,
		Dimension:  f.dimension,
		Principles: contents,
		Vectors:    f.vectors,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	path := filepath.Join(f.basePath, FlatFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func (f *FlatIndex) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.basePath, FlatFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	var snap flatSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexLoad, err)
	}
	if snap.Format != flatFormat || snap.Metric != flatMetric {
		return fmt.Errorf("%w: unknown format %q/%q", ErrIndexLoad, snap.Format, snap.Metric)
	}
	if len(snap.Principles) != len(snap.Vectors) {
		return fmt.Errorf("%w: %d principles but %d vectors", ErrIndexLoad, len(snap.Principles), len(snap.Vectors))
	}
	for _, v := range snap.Vectors {
		if len(v) != snap.Dimension {
			return fmt.Errorf("%w: vector dimension %d, expected %d", ErrIndexLoad, len(v), snap.Dimension)
		}
	}

	docs := make([]Principle, len(snap.Principles))
	for i, c := range snap.Principles {
		docs[i] = Principle{Content: c}
	}

	f.dimension = snap.Dimension
	f.docs = docs
	f.vectors = snap.Vectors
	return nil
}

func (f *FlatIndex) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.docs)
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
