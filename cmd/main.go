package main

import (
	"context"
	"fmt"
	"os"

	"github.com/frank-whw/infohound/internal/ai"
	"github.com/frank-whw/infohound/internal/cache"
	"github.com/frank-whw/infohound/internal/collector"
	"github.com/frank-whw/infohound/internal/config"
	"github.com/frank-whw/infohound/internal/logging"
	"github.com/frank-whw/infohound/internal/model"
	"github.com/frank-whw/infohound/internal/notifier"
	"github.com/frank-whw/infohound/internal/pipeline"
)

func main() {
	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "", "fetch", "generate":
	default:
		fmt.Println("Usage: infohound [fetch|generate]")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel})

	aiConfig, err := cfg.AIConfig()
	if err != nil {
		logger.Error("resolving ai config failed", "err", err)
		os.Exit(1)
	}

	aiService, err := ai.NewService(aiConfig, logging.WithComponent(logger, "ai"))
	if err != nil {
		logger.Error("creating ai service failed", "err", err)
		os.Exit(1)
	}

	sourcesFile, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Error("loading sources failed", "err", err)
		os.Exit(1)
	}

	contentCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		logger.Error("creating cache failed", "err", err)
		os.Exit(1)
	}

	scraper := collector.NewScraper(contentCache, logging.WithComponent(logger, "scraper"))
	collectorDeps := collector.Deps{
		Cache:   contentCache,
		Scraper: scraper,
		Logger:  logging.WithComponent(logger, "collector"),
	}

	p := pipeline.New(pipeline.Options{
		Sources: sourcesFile.Sources,
		NewCollector: func(sc model.SourceConfig) (collector.Collector, error) {
			return collector.New(sc, collectorDeps)
		},
		AI:          aiService,
		Logger:      logging.WithComponent(logger, "pipeline"),
		Concurrency: cfg.AIConcurrency,
		OutputDir:   cfg.OutputDir,
		ArchiveDir:  cfg.ArchiveDir,
	})

	// One full pass, no cancellation: the run proceeds to completion or
	// fatal exit.
	d, err := p.Run(context.Background())
	if err != nil {
		logger.Error("digest generation failed", "err", err)
		os.Exit(1)
	}

	if d == nil {
		return
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChannelID != 0 {
		n, err := notifier.New(cfg.TelegramBotToken, cfg.TelegramChannelID, logging.WithComponent(logger, "notifier"))
		if err != nil {
			logger.Error("creating notifier failed", "err", err)
			return
		}
		if err := n.Post(*d); err != nil {
			logger.Error("posting digest failed", "err", err)
		}
	}
}
