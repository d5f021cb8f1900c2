package internal

import (
	"context"
	"errors"
	"testing"
)

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"**bold** rule", "bold rule"},
		{"## Heading", "Heading"},
		{"* bullet", "bullet"},
		{"• bullet", "bullet"},
		{"Type: Vowel Sandhi", "Type Vowel Sandhi"},
		{"`rama`", "rama"},
		{"a - b", "a  b"},
		{"  padded  ", "padded"},
		{"**## mixed: `x`**", "mixed x"},
	}

	for _, tc := range cases {
		if got := StripMarkup(tc.in); got != tc.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAudioAdapterTranscribe(t *testing.T) {
	adapter := NewAudioAdapter(nullCapture, &stubTranscriber{text: "  sandhi  "}, nil, nil)

	got, err := adapter.Transcribe(context.Background())
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "sandhi" {
		t.Errorf("got %q, want trimmed %q", got, "sandhi")
	}
}

func TestAudioAdapterTranscribeEmpty(t *testing.T) {
	adapter := NewAudioAdapter(nullCapture, &stubTranscriber{text: "  \n "}, nil, nil)

	_, err := adapter.Transcribe(context.Background())
	if !errors.Is(err, ErrAmbiguousAudio) {
		t.Fatalf("err = %v, want ErrAmbiguousAudio", err)
	}
}

func TestAudioAdapterTranscribeCaptureError(t *testing.T) {
	failing := func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("no microphone")
	}
	adapter := NewAudioAdapter(failing, &stubTranscriber{text: "x"}, nil, nil)

	_, err := adapter.Transcribe(context.Background())
	if err == nil {
		t.Fatal("expected capture error")
	}
}

func TestAudioAdapterSynthesizeStripsMarkup(t *testing.T) {
	synth := &stubSynthesizer{}
	adapter := NewAudioAdapter(nil, nil, synth, nullPlay)

	err := adapter.SynthesizeAndPlay(context.Background(), "**Vigraha:** rama + ayanam")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if synth.lastText != "Vigraha rama + ayanam" {
		t.Errorf("synthesized %q, markup not stripped", synth.lastText)
	}
}

func TestAudioAdapterPlayError(t *testing.T) {
	failingPlay := func(ctx context.Context, audio []byte) error {
		return errors.New("no output device")
	}
	adapter := NewAudioAdapter(nil, nil, &stubSynthesizer{}, failingPlay)

	if err := adapter.SynthesizeAndPlay(context.Background(), "text"); err == nil {
		t.Fatal("expected play error")
	}
}
