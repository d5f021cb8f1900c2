package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

// SpeechClient talks to an OpenAI-compatible speech service: POST
// /audio/transcriptions for recognition, POST /audio/speech for synthesis.
type SpeechClient struct {
	baseURL   string
	apiKey    string
	sttModel  string
	ttsModel  string
	voice     string
	language  string
	client    *http.Client
}

type SpeechConfig struct {
	BaseURL  string
	APIKey   string
	STTModel string // default "whisper-1"
	TTSModel string // default "gpt-4o-mini-tts"
	Voice    string // default "alloy"
	Language string // default "hi"
	Timeout  time.Duration
}

var (
	_ Transcriber = (*SpeechClient)(nil)
	_ Synthesizer = (*SpeechClient)(nil)
)

func NewSpeechClient(cfg SpeechConfig) *SpeechClient {
	c := &SpeechClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		sttModel: cfg.STTModel,
		ttsModel: cfg.TTSModel,
		voice:    cfg.Voice,
		language: cfg.Language,
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.openai.com/v1"
	}
	if c.sttModel == "" {
		c.sttModel = "whisper-1"
	}
	if c.ttsModel == "" {
		c.ttsModel = "gpt-4o-mini-tts"
	}
	if c.voice == "" {
		c.voice = "alloy"
	}
	if c.language == "" {
		c.language = "hi"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	c.client = &http.Client{Timeout: timeout}
	return c
}

func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}
	_ = form.WriteField("model", c.sttModel)
	_ = form.WriteField("language", c.language)
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}

	url := c.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrTranscriptionService, resp.StatusCode, string(errBody))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionService, err)
	}

	return parsed.Text, nil
}

func (c *SpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"model":           c.ttsModel,
		"input":           text,
		"voice":           c.voice,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	url := c.baseURL + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tts error %d: %s", resp.StatusCode, string(errBody))
	}

	return io.ReadAll(resp.Body)
}

// CommandCapture records one utterance by running an external recorder that
// writes audio to stdout, e.g. "sox -d -t wav - trim 0 5".
func CommandCapture(command string) CaptureFunc {
	return func(ctx context.Context) ([]byte, error) {
		args := strings.Fields(command)
		if len(args) == 0 {
			return nil, fmt.Errorf("no capture command configured")
		}

		var out bytes.Buffer
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("run %s: %w", args[0], err)
		}
		return out.Bytes(), nil
	}
}

// CommandPlayer plays audio by writing it to a temp file and handing the path
// to an external player, e.g. "mpg123 -q".
func CommandPlayer(command string) PlayFunc {
	return func(ctx context.Context, audio []byte) error {
		args := strings.Fields(command)
		if len(args) == 0 {
			return fmt.Errorf("no player command configured")
		}

		tmp, err := os.CreateTemp("", "vigraha-*.mp3")
		if err != nil {
			return fmt.Errorf("create temp audio: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(audio); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp audio: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close temp audio: %w", err)
		}

		cmd := exec.CommandContext(ctx, args[0], append(args[1:], tmp.Name())...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		return nil
	}
}
