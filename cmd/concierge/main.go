package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"concierge/internal/config"
	"concierge/internal/domain"
	"concierge/internal/gemini"
	"concierge/internal/intent"
	"concierge/internal/logger"
	"concierge/internal/perplexity"
	"concierge/internal/pipeline"
	"concierge/internal/router"
	"concierge/internal/source"
	"concierge/internal/synth"
	"concierge/internal/tui"
	"concierge/internal/vectorstore"
	"concierge/internal/vectorstore/chroma"
	"concierge/internal/vectorstore/memory"
	"concierge/internal/weatherapi"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/concierge/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	persona := domain.Persona{
		Name:     cfg.Persona.Name,
		Business: cfg.Persona.Business,
		Phone:    cfg.Persona.Phone,
		Email:    cfg.Persona.Email,
	}

	// Generation backend is mandatory; everything else degrades.
	genClient, err := gemini.NewClient(gemini.Config{
		BaseURL:         cfg.Gemini.BaseURL,
		APIKeyEnv:       cfg.Gemini.APIKeyEnv,
		GenerationModel: cfg.Gemini.GenerationModel,
		EmbeddingModel:  cfg.Gemini.EmbeddingModel,
		Timeout:         time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("gemini client init failed: %v", err)
	}

	var weatherClient *weatherapi.Client
	weatherClient, err = weatherapi.NewClient(weatherapi.Config{
		BaseURL:    cfg.Weather.BaseURL,
		APIKeyEnvs: cfg.Weather.APIKeyEnvs,
		Units:      cfg.Weather.Units,
		Timeout:    time.Duration(cfg.Weather.TimeoutSecs) * time.Second,
	})
	if err != nil {
		zlog.Warnw("weather feed disabled", "error", err)
		weatherClient = nil
	}

	var searchClient *perplexity.Client
	searchClient, err = perplexity.NewClient(perplexity.Config{
		BaseURL:     cfg.Realtime.BaseURL,
		APIKeyEnv:   cfg.Realtime.APIKeyEnv,
		Model:       cfg.Realtime.Model,
		Temperature: cfg.Realtime.Temperature,
		MaxTokens:   cfg.Realtime.MaxTokens,
		Timeout:     time.Duration(cfg.Realtime.TimeoutSecs) * time.Second,
	})
	if err != nil {
		zlog.Warnw("realtime search disabled", "error", err)
		searchClient = nil
	}

	var store vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory":
		store = memory.NewStorage()
	case "chroma", "":
		cs := chroma.NewStorage(chroma.Config{
			URL:        cfg.VectorStore.Chroma.URL,
			Collection: cfg.VectorStore.Chroma.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Chroma.TimeoutSecs) * time.Second,
		})
		if err := cs.Connect(context.Background()); err != nil {
			// The knowledge base stays unavailable for this process;
			// the concierge still answers from the other sources.
			zlog.Errorw("knowledge base not connected", "error", err)
		}
		store = cs
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	sources := map[router.Selection]domain.ContextSource{
		router.SourceKnowledge: source.NewKnowledge(genClient, store, zlog),
		router.SourceWeather:   source.NewWeather(weatherClient, cfg.Weather.Location, zlog),
		router.SourceRealtime:  source.NewRealtime(searchClient, persona.SearchFraming(), zlog),
		router.SourcePersona:   source.NewPersona(persona),
	}
	synthesizer := synth.New(genClient, persona, cfg.Gemini.Temperature, cfg.Gemini.MaxOutputTokens, zlog)
	pipe := pipeline.New(intent.NewClassifier(), sources, synthesizer, zlog)

	greeting := fmt.Sprintf("Welcome to %s! I'm %s, your personal wine concierge. Ask me about our winery, tastings, the weather, or what's happening in the valley.",
		persona.Business, persona.Name)
	m := tui.New(pipe, persona.Name, greeting)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
