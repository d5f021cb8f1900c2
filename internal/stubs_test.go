package internal

import "context"

// stubEmbedder maps known texts to fixed vectors and counts calls.
type stubEmbedder struct {
	dim        int
	vectors    map[string][]float32
	fallback   []float32
	embedCalls int
	batchCalls int
}

func newStubEmbedder(dim int, vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{dim: dim, vectors: vectors}
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.embedCalls++
	return s.vectorFor(text), nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vectorFor(t)
	}
	return out, nil
}

func (s *stubEmbedder) vectorFor(text string) []float32 {
	if v, ok := s.vectors[text]; ok {
		return v
	}
	if s.fallback != nil {
		return s.fallback
	}
	v := make([]float32, s.dim)
	for i, r := range text {
		v[i%s.dim] += float32(r % 13)
	}
	return v
}

func (s *stubEmbedder) Dimension() int { return s.dim }
func (s *stubEmbedder) Close() error   { return nil }

// stubProvider returns a canned reply and counts calls.
type stubProvider struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// stubTranscriber returns fixed text or an error.
type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

// stubSynthesizer records the text it was asked to speak.
type stubSynthesizer struct {
	lastText string
	err      error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.lastText = text
	if s.err != nil {
		return nil, s.err
	}
	return []byte("audio"), nil
}

func nullCapture(ctx context.Context) ([]byte, error) { return []byte("wav"), nil }

func nullPlay(ctx context.Context, audio []byte) error { return nil }
