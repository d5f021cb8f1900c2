package internal

import (
	"context"
	"fmt"
	"time"
)

// Input is the tagged variant for the two input modes. Both dispatch through
// the same analysis path.
type Input interface {
	isInput()
}

type TextInput struct {
	Text string
}

type AudioInput struct{}

func (TextInput) isInput()  {}
func (AudioInput) isInput() {}

// Session is the outward surface of the analysis pipeline: one logical
// thread of control, synchronous request/response, history owned by the
// session and cleared only on teardown.
type Session struct {
	retriever *Retriever
	chain     *AnalysisChain
	audio     *AudioAdapter // nil when no speech services are configured
	history   *HistoryLog
}

func NewSession(retriever *Retriever, chain *AnalysisChain, audio *AudioAdapter) *Session {
	return &Session{
		retriever: retriever,
		chain:     chain,
		audio:     audio,
		history:   NewHistoryLog(),
	}
}

// SubmitText analyzes typed input and appends the result to the session
// history.
func (s *Session) SubmitText(ctx context.Context, text string) (*HistoryEntry, error) {
	return s.submit(ctx, TextInput{Text: text})
}

// SubmitAudio captures and transcribes one utterance, then analyzes it like
// typed input.
func (s *Session) SubmitAudio(ctx context.Context) (*HistoryEntry, error) {
	return s.submit(ctx, AudioInput{})
}

func (s *Session) submit(ctx context.Context, input Input) (*HistoryEntry, error) {
	var text string
	switch in := input.(type) {
	case TextInput:
		text = in.Text
	case AudioInput:
		if s.audio == nil {
			return nil, fmt.Errorf("audio input not configured")
		}
		transcribed, err := s.audio.Transcribe(ctx)
		if err != nil {
			return nil, err
		}
		text = transcribed
	default:
		return nil, fmt.Errorf("unknown input mode %T", input)
	}

	if text == "" {
		return nil, fmt.Errorf("empty input")
	}

	principles, err := s.retriever.Retrieve(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := s.chain.Analyze(ctx, text, principles)
	if err != nil {
		return nil, err
	}

	entry := HistoryEntry{
		Input:  text,
		Result: *result,
		At:     time.Now().UTC(),
	}
	s.history.Append(entry)
	return &entry, nil
}

// Speak renders an analysis aloud. Best effort: the returned error is for
// display only and never aborts anything.
func (s *Session) Speak(ctx context.Context, text string) error {
	if s.audio == nil {
		return fmt.Errorf("speech output not configured")
	}
	return s.audio.SynthesizeAndPlay(ctx, text)
}

// History lists past analyses, newest first.
func (s *Session) History() []HistoryEntry {
	return s.history.Entries()
}

// Replay re-surfaces the entry appended at position index without re-running
// retrieval or generation.
func (s *Session) Replay(index int) (HistoryEntry, error) {
	return s.history.Replay(index)
}

// Close tears the session down and drops its history.
func (s *Session) Close() {
	s.history.clear()
}
