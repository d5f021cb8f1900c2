package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const WorkspaceDirName = ".vigraha"

// Workspace is the directory everything persistent lives under: config,
// corpus, and the serialized index. A project-local .vigraha directory found
// by walking up from the working directory wins over the home fallback.
type Workspace struct {
	Root string // directory containing the .vigraha dir
	Path string // the .vigraha dir itself
}

func (w Workspace) ConfigPath() string {
	return filepath.Join(w.Path, "config.yaml")
}

func (w Workspace) IndexPath() string {
	return filepath.Join(w.Path, "index")
}

// CorpusPath resolves a corpus path from config; relative paths are anchored
// at the workspace root.
func (w Workspace) CorpusPath(cfg *Config) string {
	if filepath.IsAbs(cfg.Corpus) {
		return cfg.Corpus
	}
	return filepath.Join(w.Root, cfg.Corpus)
}

// ResolveWorkspace walks up from the working directory looking for a
// .vigraha dir, falling back to ~/.vigraha.
func ResolveWorkspace() Workspace {
	if cwd, err := os.Getwd(); err == nil {
		if ws, ok := findWorkspace(cwd); ok {
			return ws
		}
	}

	home, _ := os.UserHomeDir()
	return Workspace{
		Root: home,
		Path: filepath.Join(home, WorkspaceDirName),
	}
}

func findWorkspace(dir string) (Workspace, bool) {
	for {
		path := filepath.Join(dir, WorkspaceDirName)
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			return Workspace{Root: dir, Path: path}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Workspace{}, false
		}
		dir = parent
	}
}

type EmbeddingsConfig struct {
	Backend   string `yaml:"backend"` // google | openai
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Dimension int    `yaml:"dimension"`
}

type ProviderConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
}

type IndexConfig struct {
	Backend string `yaml:"backend"` // flat | annoy
	Trees   int    `yaml:"trees,omitempty"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

type AudioConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url,omitempty"`
	STTModel string `yaml:"stt_model,omitempty"`
	TTSModel string `yaml:"tts_model,omitempty"`
	Voice    string `yaml:"voice,omitempty"`
	Language string `yaml:"language,omitempty"`
	Record   string `yaml:"record,omitempty"` // external recorder command, writes audio to stdout
	Play     string `yaml:"play,omitempty"`   // external player command, gets a file path appended
}

type Config struct {
	Corpus          string                    `yaml:"corpus"`
	Retrieval       RetrievalConfig           `yaml:"retrieval"`
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Index           IndexConfig               `yaml:"index"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Audio           AudioConfig               `yaml:"audio"`
}

func DefaultConfig() *Config {
	return &Config{
		Corpus:    "sandhi_principles.txt",
		Retrieval: RetrievalConfig{TopK: 3},
		Embeddings: EmbeddingsConfig{
			Backend:   "google",
			Model:     "text-embedding-004",
			Dimension: 768,
		},
		Index: IndexConfig{Backend: "flat", Trees: 10},
		Providers: map[string]ProviderConfig{
			"google": {Model: "gemini-2.0-flash", Temperature: 0.3},
		},
		DefaultProvider: "google",
		Audio: AudioConfig{
			STTModel: "whisper-1",
			TTSModel: "gpt-4o-mini-tts",
			Voice:    "alloy",
			Language: "hi",
			Record:   "sox -d -t wav - trim 0 5",
			Play:     "mpg123 -q",
		},
	}
}

func LoadConfig(ws Workspace) (*Config, error) {
	data, err := os.ReadFile(ws.ConfigPath())
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func SaveConfig(ws Workspace, cfg *Config) error {
	if err := os.MkdirAll(ws.Path, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(ws.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Corpus == "" {
		cfg.Corpus = def.Corpus
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Embeddings.Backend == "" {
		cfg.Embeddings = def.Embeddings
	}
	if cfg.Embeddings.Dimension <= 0 {
		cfg.Embeddings.Dimension = def.Embeddings.Dimension
	}
	if cfg.Index.Backend == "" {
		cfg.Index = def.Index
	}
	if cfg.Providers == nil {
		cfg.Providers = def.Providers
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = def.DefaultProvider
	}
	if cfg.Audio.STTModel == "" {
		audio := def.Audio
		audio.Enabled = cfg.Audio.Enabled
		cfg.Audio = audio
	}
}
