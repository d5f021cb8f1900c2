package internal

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GoogleConfig struct {
	APIKey      string
	EmbedModel  string
	ChatModel   string
	Dimension   int
	Temperature float32
}

var (
	_ Embedder = (*GoogleClient)(nil)
	_ Provider = (*GoogleClient)(nil)
)

// GoogleClient backs both the embedding and generation boundaries with the
// Gemini API. Generation always runs with the configured low temperature.
type GoogleClient struct {
	client      *genai.Client
	embedModel  string
	chatModel   string
	dimension   int
	temperature float32
}

func NewGoogleClient(ctx context.Context, cfg GoogleConfig) (*GoogleClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing google api key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-004"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gemini-2.0-flash"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 768
	}

	return &GoogleClient{
		client:      client,
		embedModel:  cfg.EmbedModel,
		chatModel:   cfg.ChatModel,
		dimension:   cfg.Dimension,
		temperature: cfg.Temperature,
	}, nil
}

func (g *GoogleClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embed: empty response")
	}
	return resp.Embeddings[0].Values, nil
}

func (g *GoogleClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed batch: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (g *GoogleClient) Dimension() int {
	return g.dimension
}

func (g *GoogleClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.chatModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text(), nil
}

func (g *GoogleClient) Close() error {
	return nil
}
