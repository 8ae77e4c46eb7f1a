package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"concierge/internal/chunker"
	"concierge/internal/config"
	"concierge/internal/gemini"
	"concierge/internal/ingest"
	"concierge/internal/logger"
	"concierge/internal/summarizer"
	"concierge/internal/vectorstore"
	"concierge/internal/vectorstore/chroma"
	"concierge/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: concierge-ingest [--config=config.yaml] file1.txt [file2.txt ...]")
		os.Exit(1)
	}

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

	embClient, err := gemini.NewClient(gemini.Config{
		BaseURL:         cfg.Gemini.BaseURL,
		APIKeyEnv:       cfg.Gemini.APIKeyEnv,
		GenerationModel: cfg.Gemini.GenerationModel,
		EmbeddingModel:  cfg.Gemini.EmbeddingModel,
		Timeout:         time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("gemini client init failed: %v", err)
	}

	var store vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory":
		store = memory.NewStorage()
	case "chroma", "":
		store = chroma.NewStorage(chroma.Config{
			URL:        cfg.VectorStore.Chroma.URL,
			Collection: cfg.VectorStore.Chroma.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Chroma.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	svc := ingest.NewService(
		chunker.NewCharacterChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		embClient,
		store,
		summarizer.NewFrequency(),
		cfg.Ingest.SummarySentences,
		zlog,
	)
	report, err := svc.Run(context.Background(), inputs)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	fmt.Printf("Ingested %d document(s) into %d snippet(s).\n\n", report.Documents, report.Snippets)
	fmt.Println("Corpus digest:")
	fmt.Println(report.Summary)
}
