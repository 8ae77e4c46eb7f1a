package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GeminiConfig configures the embedding/generation backend.
type GeminiConfig struct {
	BaseURL         string  `yaml:"base_url"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	GenerationModel string  `yaml:"generation_model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TimeoutSecs     int     `yaml:"timeout_secs"`
}

// WeatherConfig configures the live weather feed.
type WeatherConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKeyEnvs  []string `yaml:"api_key_envs"`
	Location    string   `yaml:"location"`
	Units       string   `yaml:"units"`
	TimeoutSecs int      `yaml:"timeout_secs"`
}

// RealtimeConfig configures the online search feed.
type RealtimeConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// ChromaConfig contains connection details for a Chroma vector store.
type ChromaConfig struct {
	URL         string `yaml:"url"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Chroma *ChromaConfig `yaml:"chroma,omitempty"`
}

// PersonaConfig is the assistant identity and contact fallbacks.
type PersonaConfig struct {
	Name     string `yaml:"name"`
	Business string `yaml:"business"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
}

// IngestConfig configures the batch ingestion job.
type IngestConfig struct {
	ChunkSize        int `yaml:"chunk_size"`
	ChunkOverlap     int `yaml:"chunk_overlap"`
	SummarySentences int `yaml:"summary_sentences"`
}

// LoggingConfig selects the zap preset.
type LoggingConfig struct {
	Mode string `yaml:"mode"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	Weather     WeatherConfig     `yaml:"weather"`
	Realtime    RealtimeConfig    `yaml:"realtime"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Persona     PersonaConfig     `yaml:"persona"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not
// exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/concierge/config.yaml. If neither exists, it writes
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as
// needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "concierge", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Gemini.GenerationModel == "" {
		cfg.Gemini.GenerationModel = "gemini-1.5-flash"
	}
	if cfg.Gemini.EmbeddingModel == "" {
		cfg.Gemini.EmbeddingModel = "text-embedding-004"
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.7
	}
	if cfg.Gemini.MaxOutputTokens == 0 {
		cfg.Gemini.MaxOutputTokens = 1000
	}
	if cfg.Gemini.TimeoutSecs == 0 {
		cfg.Gemini.TimeoutSecs = 60
	}
	if len(cfg.Weather.APIKeyEnvs) == 0 {
		cfg.Weather.APIKeyEnvs = []string{"WEATHER_API_KEY", "OPENWEATHERMAP_API_KEY"}
	}
	if cfg.Weather.Location == "" {
		cfg.Weather.Location = "Napa, CA"
	}
	if cfg.Weather.Units == "" {
		cfg.Weather.Units = "imperial"
	}
	if cfg.Weather.TimeoutSecs == 0 {
		cfg.Weather.TimeoutSecs = 10
	}
	if cfg.Realtime.APIKeyEnv == "" {
		cfg.Realtime.APIKeyEnv = "PERPLEXITY_API_KEY"
	}
	if cfg.Realtime.Model == "" {
		cfg.Realtime.Model = "llama-3.1-sonar-small-128k-online"
	}
	if cfg.Realtime.Temperature == 0 {
		cfg.Realtime.Temperature = 0.7
	}
	if cfg.Realtime.MaxTokens == 0 {
		cfg.Realtime.MaxTokens = 500
	}
	if cfg.Realtime.TimeoutSecs == 0 {
		cfg.Realtime.TimeoutSecs = 30
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "chroma"
	}
	if cfg.VectorStore.Type == "chroma" {
		if cfg.VectorStore.Chroma == nil {
			cfg.VectorStore.Chroma = &ChromaConfig{}
		}
		if cfg.VectorStore.Chroma.URL == "" {
			cfg.VectorStore.Chroma.URL = "http://localhost:8000"
		}
		if cfg.VectorStore.Chroma.Collection == "" {
			cfg.VectorStore.Chroma.Collection = "wine_business_knowledge"
		}
		if cfg.VectorStore.Chroma.TimeoutSecs == 0 {
			cfg.VectorStore.Chroma.TimeoutSecs = 15
		}
	}
	if cfg.Persona.Name == "" {
		cfg.Persona.Name = "Tohin"
	}
	if cfg.Persona.Business == "" {
		cfg.Persona.Business = "Napa Valley Premium Wines"
	}
	if cfg.Persona.Phone == "" {
		cfg.Persona.Phone = "(707) 555-WINE"
	}
	if cfg.Persona.Email == "" {
		cfg.Persona.Email = "info@napavalleypremiumwines.com"
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 1000
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 100
	}
	if cfg.Ingest.SummarySentences == 0 {
		cfg.Ingest.SummarySentences = 5
	}
	if cfg.Logging.Mode == "" {
		cfg.Logging.Mode = "dev"
	}
}
