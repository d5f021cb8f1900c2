package internal

import (
	"context"
	"fmt"
	"strings"
)

// Transcriber converts one captured utterance to text in the configured
// target language.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer renders text as audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// CaptureFunc blocks until one utterance is captured and returns the raw
// audio. The capture device owns the implicit timeout; ctx adds an explicit
// one on top.
type CaptureFunc func(ctx context.Context) ([]byte, error)

// PlayFunc plays synthesized audio.
type PlayFunc func(ctx context.Context, audio []byte) error

// AudioAdapter wraps the speech services. It is not part of the analysis
// core; the session consumes it for the audio input mode and the spoken
// result side channel.
type AudioAdapter struct {
	capture     CaptureFunc
	transcriber Transcriber
	synthesizer Synthesizer
	play        PlayFunc
}

func NewAudioAdapter(capture CaptureFunc, t Transcriber, s Synthesizer, play PlayFunc) *AudioAdapter {
	return &AudioAdapter{
		capture:     capture,
		transcriber: t,
		synthesizer: s,
		play:        play,
	}
}

// Transcribe captures one utterance and returns the recognized text. An
// empty transcription maps to ErrAmbiguousAudio so the caller can prompt a
// retry.
func (a *AudioAdapter) Transcribe(ctx context.Context) (string, error) {
	audio, err := a.capture(ctx)
	if err != nil {
		return "", fmt.Errorf("capture audio: %w", err)
	}

	text, err := a.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrAmbiguousAudio
	}
	return text, nil
}

// SynthesizeAndPlay speaks the text. Errors are returned for reporting but
// the caller treats them as best-effort, never fatal.
func (a *AudioAdapter) SynthesizeAndPlay(ctx context.Context, text string) error {
	audio, err := a.synthesizer.Synthesize(ctx, StripMarkup(text))
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if err := a.play(ctx, audio); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

// markupReplacer strips formatting punctuation before synthesis. Longer
// tokens first so "**" does not survive as "*".
var markupReplacer = strings.NewReplacer(
	"**", "",
	"##", "",
	"*", "",
	"•", "",
	":", "",
	"`", "",
	"-", "",
)

func StripMarkup(text string) string {
	return strings.TrimSpace(markupReplacer.Replace(text))
}
