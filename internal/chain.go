package internal

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// analysisTemplate fixes the prompt shape: instruction block, retrieved
// principles, raw input. Slot names mirror the data the chain fills in.
const analysisTemplate = `You are a Sanskrit linguistics assistant.

Given a Sanskrit word or phrase, perform a complete Sandhi Vigraha (word
separation). The input may contain multiple Sandhi formations, so analyze
the entire word or phrase thoroughly.

Follow these steps:
1. Split the Sanskrit correctly (Vigraha).
2. Explain each Sandhi:
   - Combined form
   - Separated form
   - Type of Sandhi
   - Rule applied
3. Provide the overall English translation.

Use your knowledge of the following Sandhi principles:
{{.Principles}}

Input:
{{.InputText}}
`

// AnalysisResult is the product of one analysis call. Immutable once
// produced; the generated text is returned unparsed.
type AnalysisResult struct {
	InputText      string   `json:"input_text"`
	GeneratedText  string   `json:"generated_text"`
	UsedPrinciples []string `json:"used_principles"`
}

// AnalysisChain composes retrieved principles and the raw input into a single
// prompt and invokes the generative model once.
type AnalysisChain struct {
	provider Provider
	tmpl     *template.Template
}

func NewAnalysisChain(provider Provider) *AnalysisChain {
	return &AnalysisChain{
		provider: provider,
		tmpl:     template.Must(template.New("analysis").Parse(analysisTemplate)),
	}
}

func (c *AnalysisChain) Analyze(ctx context.Context, inputText string, principles []string) (*AnalysisResult, error) {
	var prompt strings.Builder
	err := c.tmpl.Execute(&prompt, struct {
		Principles string
		InputText  string
	}{
		Principles: strings.Join(principles, "\n"),
		InputText:  inputText,
	})
	if err != nil {
		return nil, fmt.Errorf("compose prompt: %w", err)
	}

	generated, err := c.provider.Complete(ctx, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	used := make([]string, len(principles))
	copy(used, principles)

	return &AnalysisResult{
		InputText:      inputText,
		GeneratedText:  generated,
		UsedPrinciples: used,
	}, nil
}
