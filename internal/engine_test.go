package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkspace(t *testing.T, corpus []string) (Workspace, *Config) {
	t.Helper()
	root := t.TempDir()
	ws := Workspace{Root: root, Path: filepath.Join(root, WorkspaceDirName)}
	require.NoError(t, os.MkdirAll(ws.Path, 0755))

	cfg := DefaultConfig()
	if corpus != nil {
		var data []byte
		for _, line := range corpus {
			data = append(data, line...)
			data = append(data, '\n')
		}
		require.NoError(t, os.WriteFile(ws.CorpusPath(cfg), data, 0644))
	}
	return ws, cfg
}

func TestEngineBuildsIndexFromCorpus(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one", "rule two", "rule three"})
	embedder := newStubEmbedder(4, nil)
	engine := NewEngine(cfg, ws, WithEmbedder(embedder), WithProvider(&stubProvider{reply: "r"}))

	idx, err := engine.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 1, embedder.batchCalls)

	// The built index was persisted.
	_, err = os.Stat(filepath.Join(ws.IndexPath(), "index.json"))
	assert.NoError(t, err)
}

func TestEngineLoadsPersistedIndexWithoutReembedding(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one", "rule two"})

	first := newStubEmbedder(4, nil)
	engine := NewEngine(cfg, ws, WithEmbedder(first), WithProvider(&stubProvider{reply: "r"}))
	_, err := engine.Index(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.batchCalls)

	// A fresh engine over the same workspace loads the snapshot.
	second := newStubEmbedder(4, nil)
	engine2 := NewEngine(cfg, ws, WithEmbedder(second), WithProvider(&stubProvider{reply: "r"}))
	idx, err := engine2.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Zero(t, second.batchCalls, "loading a persisted index must not re-embed the corpus")
}

func TestEngineCorruptIndexTriggersRebuild(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one"})
	require.NoError(t, os.MkdirAll(ws.IndexPath(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ws.IndexPath(), "index.json"), []byte("{broken"), 0644))

	embedder := newStubEmbedder(4, nil)
	engine := NewEngine(cfg, ws, WithEmbedder(embedder))

	idx, err := engine.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 1, embedder.batchCalls, "corrupt snapshot should fall back to a rebuild")
}

func TestEngineIndexMissingCorpus(t *testing.T) {
	ws, cfg := testWorkspace(t, nil)
	engine := NewEngine(cfg, ws, WithEmbedder(newStubEmbedder(4, nil)))

	_, err := engine.Index(context.Background())
	assert.ErrorIs(t, err, ErrCorpusNotFound)
}

func TestEngineRebuildSwapsIndex(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one"})
	embedder := newStubEmbedder(4, nil)
	engine := NewEngine(cfg, ws, WithEmbedder(embedder))

	idx, err := engine.Index(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())

	// Grow the corpus, rebuild, and observe the swapped handle.
	require.NoError(t, os.WriteFile(ws.CorpusPath(cfg), []byte("rule one\nrule two\n"), 0644))
	require.NoError(t, engine.Rebuild(context.Background()))

	idx, err = engine.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestEngineRebuildBeforeFirstIndexAccess(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one"})
	engine := NewEngine(cfg, ws, WithEmbedder(newStubEmbedder(4, nil)))

	require.NoError(t, engine.Rebuild(context.Background()))

	// Index must hand back the rebuilt handle, not trigger a second build.
	idx, err := engine.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestEngineMemoizesHandles(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule one"})
	engine := NewEngine(cfg, ws, WithEmbedder(newStubEmbedder(4, nil)), WithProvider(&stubProvider{reply: "r"}))

	e1, err := engine.Embedder(context.Background())
	require.NoError(t, err)
	e2, err := engine.Embedder(context.Background())
	require.NoError(t, err)
	assert.Same(t, e1.(*stubEmbedder), e2.(*stubEmbedder))

	p1, err := engine.Provider(context.Background())
	require.NoError(t, err)
	p2, err := engine.Provider(context.Background())
	require.NoError(t, err)
	assert.Same(t, p1.(*stubProvider), p2.(*stubProvider))
}

func TestEngineNewSession(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"Vowel Sandhi rule", "Visarga Sandhi rule"})
	provider := &stubProvider{reply: "analysis"}
	engine := NewEngine(cfg, ws, WithEmbedder(newStubEmbedder(4, nil)), WithProvider(provider))

	session, err := engine.NewSession(context.Background())
	require.NoError(t, err)

	entry, err := session.SubmitText(context.Background(), "ramayanam")
	require.NoError(t, err)
	assert.Equal(t, "analysis", entry.Result.GeneratedText)
	assert.NotEmpty(t, entry.Result.UsedPrinciples)
}

func TestEngineUnsupportedIndexBackend(t *testing.T) {
	ws, cfg := testWorkspace(t, []string{"rule"})
	cfg.Index.Backend = "kdtree"
	engine := NewEngine(cfg, ws, WithEmbedder(newStubEmbedder(4, nil)))

	_, err := engine.Index(context.Background())
	assert.Error(t, err)
}
