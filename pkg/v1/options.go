package v1

import "github.com/prajnadip/vigraha/internal"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	workspace string
	topK      int
	embedder  internal.Embedder
	provider  internal.Provider
}

// WithWorkspace uses dir as the workspace root instead of resolving one.
func WithWorkspace(dir string) Option {
	return func(c *clientConfig) {
		c.workspace = dir
	}
}

// WithTopK overrides the configured retrieval depth.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		c.topK = k
	}
}

// WithEmbedder injects an embedding client, bypassing config.
func WithEmbedder(e internal.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithProvider injects a generation client, bypassing config.
func WithProvider(p internal.Provider) Option {
	return func(c *clientConfig) {
		c.provider = p
	}
}
