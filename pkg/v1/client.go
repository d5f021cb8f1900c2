// Package v1 embeds the analysis pipeline without the CLI: one client, one
// session, the same history semantics.
package v1

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prajnadip/vigraha/internal"
)

// Client provides programmatic access to the analysis pipeline.
type Client struct {
	engine  *internal.Engine
	session *internal.Session
}

// New creates a Client. The session starts on the first Analyze call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ws := internal.ResolveWorkspace()
	if cfg.workspace != "" {
		ws = internal.Workspace{
			Root: cfg.workspace,
			Path: filepath.Join(cfg.workspace, internal.WorkspaceDirName),
		}
	}

	conf, err := internal.LoadConfig(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.topK > 0 {
		conf.Retrieval.TopK = cfg.topK
	}

	var engineOpts []internal.EngineOption
	if cfg.embedder != nil {
		engineOpts = append(engineOpts, internal.WithEmbedder(cfg.embedder))
	}
	if cfg.provider != nil {
		engineOpts = append(engineOpts, internal.WithProvider(cfg.provider))
	}

	return &Client{
		engine: internal.NewEngine(conf, ws, engineOpts...),
	}, nil
}

// Analyze decomposes one compound and records it in the client's session
// history.
func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := session.SubmitText(ctx, text)
	if err != nil {
		return nil, err
	}
	return toAnalysis(*entry), nil
}

// History lists past analyses, newest first.
func (c *Client) History() []Analysis {
	if c.session == nil {
		return nil
	}

	entries := c.session.History()
	out := make([]Analysis, len(entries))
	for i, e := range entries {
		out[i] = *toAnalysis(e)
	}
	return out
}

// Replay returns the analysis appended at position index without re-running
// retrieval or generation.
func (c *Client) Replay(index int) (*Analysis, error) {
	if c.session == nil {
		return nil, internal.ErrNoSuchEntry
	}

	entry, err := c.session.Replay(index)
	if err != nil {
		return nil, err
	}
	return toAnalysis(entry), nil
}

// Close tears down the session and releases the engine's resources.
func (c *Client) Close() error {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	return c.engine.Close()
}

func (c *Client) ensureSession(ctx context.Context) (*internal.Session, error) {
	if c.session != nil {
		return c.session, nil
	}

	session, err := c.engine.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize session: %w", err)
	}
	c.session = session
	return session, nil
}

func toAnalysis(e internal.HistoryEntry) *Analysis {
	return &Analysis{
		Input:          e.Input,
		GeneratedText:  e.Result.GeneratedText,
		UsedPrinciples: e.Result.UsedPrinciples,
		At:             e.At,
	}
}
