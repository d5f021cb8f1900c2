package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ Embedder = (*RemoteEmbedder)(nil)

// RemoteEmbedder speaks the OpenAI-compatible /embeddings endpoint, for
// self-hosted embedding servers. Failures are surfaced, never retried; retry
// is a user-initiated re-submission.
type RemoteEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

type RemoteEmbedderConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

func NewRemoteEmbedder(cfg RemoteEmbedderConfig) (*RemoteEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing embeddings api key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &RemoteEmbedder{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type embeddingsRequest struct {
	Input any    `json:"input"`
	Model string `json:"model"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.request(ctx, text, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.request(ctx, texts, len(texts))
}

func (e *RemoteEmbedder) request(ctx context.Context, input any, want int) ([][]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Input: input, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embeddings error %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) != want {
		return nil, fmt.Errorf("got %d embeddings, want %d", len(parsed.Data), want)
	}

	vectors := make([][]float32, len(parsed.Data))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	if e.dimension == 0 && len(vectors) > 0 {
		e.dimension = len(vectors[0])
	}
	return vectors, nil
}

func (e *RemoteEmbedder) Dimension() int {
	return e.dimension
}

func (e *RemoteEmbedder) Close() error {
	return nil
}
