package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Engine owns the expensive, process-lifetime resources: the embedding
// client, the generation client, and the vector index. Each is constructed
// at most once and shared read-only; the index can additionally be rebuilt,
// which swaps the whole handle atomically.
type Engine struct {
	cfg *Config
	ws  Workspace

	embedderOnce sync.Once
	embedder     Embedder
	embedderErr  error

	providerOnce sync.Once
	provider     Provider
	providerErr  error

	indexOnce sync.Once
	indexErr  error

	mu    sync.RWMutex
	index VectorIndex
}

// EngineOption pre-seeds a handle, mainly so callers can inject stubs.
type EngineOption func(*Engine)

func WithEmbedder(e Embedder) EngineOption {
	return func(eng *Engine) {
		eng.embedderOnce.Do(func() { eng.embedder = e })
	}
}

func WithProvider(p Provider) EngineOption {
	return func(eng *Engine) {
		eng.providerOnce.Do(func() { eng.provider = p })
	}
}

func NewEngine(cfg *Config, ws Workspace, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg, ws: ws}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Embedder(ctx context.Context) (Embedder, error) {
	e.embedderOnce.Do(func() {
		e.embedder, e.embedderErr = e.newEmbedder(ctx)
	})
	return e.embedder, e.embedderErr
}

func (e *Engine) newEmbedder(ctx context.Context) (Embedder, error) {
	cfg := e.cfg.Embeddings
	switch cfg.Backend {
	case "google":
		return NewGoogleClient(ctx, GoogleConfig{
			APIKey:      e.googleAPIKey(),
			EmbedModel:  cfg.Model,
			ChatModel:   e.cfg.Providers["google"].Model,
			Dimension:   cfg.Dimension,
			Temperature: e.cfg.Providers["google"].Temperature,
		})
	case "openai":
		return NewRemoteEmbedder(RemoteEmbedderConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    envOr(e.cfg.Providers["openai"].APIKey, "OPENAI_API_KEY"),
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
		})
	default:
		return nil, fmt.Errorf("unsupported embeddings backend: %s", cfg.Backend)
	}
}

func (e *Engine) Provider(ctx context.Context) (Provider, error) {
	e.providerOnce.Do(func() {
		e.provider, e.providerErr = e.newProvider(ctx)
	})
	return e.provider, e.providerErr
}

func (e *Engine) newProvider(ctx context.Context) (Provider, error) {
	name := e.cfg.DefaultProvider
	pcfg := e.cfg.Providers[name]

	if name == "google" {
		return NewGoogleClient(ctx, GoogleConfig{
			APIKey:      e.googleAPIKey(),
			EmbedModel:  e.cfg.Embeddings.Model,
			ChatModel:   pcfg.Model,
			Dimension:   e.cfg.Embeddings.Dimension,
			Temperature: pcfg.Temperature,
		})
	}

	return NewFantasyProvider(ctx, FantasyConfig{
		Provider: name,
		APIKey:   envOr(pcfg.APIKey, providerKeyEnv(name)),
		BaseURL:  pcfg.BaseURL,
		Model:    pcfg.Model,
	})
}

// Index returns the shared vector index, loading the persisted one or
// building from the corpus on first use. The branch runs once per process.
func (e *Engine) Index(ctx context.Context) (VectorIndex, error) {
	e.indexOnce.Do(func() {
		e.indexErr = e.loadOrBuild(ctx)
	})
	if e.indexErr != nil {
		return nil, e.indexErr
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index, nil
}

func (e *Engine) loadOrBuild(ctx context.Context) error {
	idx, err := e.newIndex()
	if err != nil {
		return err
	}

	err = idx.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrIndexNotFound), errors.Is(err, ErrIndexLoad):
		// No usable persisted index: rebuild from the corpus.
		idx, err = e.buildIndex(ctx)
		if err != nil {
			return err
		}
	default:
		return err
	}

	e.mu.Lock()
	e.index = idx
	e.mu.Unlock()
	return nil
}

// Rebuild constructs a fresh index from the corpus, persists it, and
// replaces the shared handle in one step. Readers see either the old index
// or the new one, never a partial state.
func (e *Engine) Rebuild(ctx context.Context) error {
	idx, err := e.buildIndex(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.index = idx
	e.mu.Unlock()

	// Mark the load-or-build branch as taken so a later Index call does not
	// overwrite the rebuilt handle.
	e.indexOnce.Do(func() {})
	return nil
}

func (e *Engine) buildIndex(ctx context.Context) (VectorIndex, error) {
	principles, err := LoadPrinciples(e.ws.CorpusPath(e.cfg))
	if err != nil {
		return nil, err
	}

	embedder, err := e.Embedder(ctx)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(principles))
	for i, p := range principles {
		texts[i] = p.Content
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}

	idx, err := e.newIndex()
	if err != nil {
		return nil, err
	}
	for i, p := range principles {
		if err := idx.Add(ctx, p, NewEmbedding(vectors[i])); err != nil {
			return nil, fmt.Errorf("index %q: %w", p.Content, err)
		}
	}
	if err := idx.Build(ctx); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := idx.Save(ctx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	return idx, nil
}

func (e *Engine) newIndex() (VectorIndex, error) {
	switch e.cfg.Index.Backend {
	case "", "flat":
		return NewFlatIndex(e.ws.IndexPath(), 0)
	case "annoy":
		return NewAnnoyIndex(e.ws.IndexPath(), e.cfg.Embeddings.Dimension, e.cfg.Index.Trees)
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", e.cfg.Index.Backend)
	}
}

// NewSession wires a session over the shared handles.
func (e *Engine) NewSession(ctx context.Context) (*Session, error) {
	index, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}
	embedder, err := e.Embedder(ctx)
	if err != nil {
		return nil, err
	}
	provider, err := e.Provider(ctx)
	if err != nil {
		return nil, err
	}

	retriever := NewRetriever(embedder, index, e.cfg.Retrieval.TopK)
	chain := NewAnalysisChain(provider)

	var audio *AudioAdapter
	if e.cfg.Audio.Enabled {
		speech := NewSpeechClient(SpeechConfig{
			BaseURL:  e.cfg.Audio.BaseURL,
			APIKey:   envOr(e.cfg.Providers["openai"].APIKey, "OPENAI_API_KEY"),
			STTModel: e.cfg.Audio.STTModel,
			TTSModel: e.cfg.Audio.TTSModel,
			Voice:    e.cfg.Audio.Voice,
			Language: e.cfg.Audio.Language,
		})
		audio = NewAudioAdapter(
			CommandCapture(e.cfg.Audio.Record),
			speech,
			speech,
			CommandPlayer(e.cfg.Audio.Play),
		)
	}

	return NewSession(retriever, chain, audio), nil
}

func (e *Engine) Close() error {
	if e.embedder != nil {
		return e.embedder.Close()
	}
	return nil
}

func (e *Engine) googleAPIKey() string {
	return envOr(e.cfg.Providers["google"].APIKey, "GOOGLE_API_KEY")
}

func envOr(explicit, envName string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envName)
}

func providerKeyEnv(name string) string {
	switch name {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
