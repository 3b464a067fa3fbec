package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pep299/iqcraft/internal/article"
	"github.com/pep299/iqcraft/internal/config"
	"github.com/pep299/iqcraft/internal/export"
	"github.com/pep299/iqcraft/internal/gemini"
	"github.com/pep299/iqcraft/internal/study"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	renderer, err := export.NewRenderer(cfg.Brand)
	if err != nil {
		log.Fatalf("Failed to load flashcard fonts: %v", err)
	}

	var sink export.Sink = export.DirSink{Dir: cfg.ExportDir}
	if cfg.ExportBucket != "" {
		bucket, err := export.NewBucketSink(ctx, cfg.ExportBucket, cfg.ExportPrefix)
		if err != nil {
			log.Fatalf("Failed to create bucket sink: %v", err)
		}
		defer bucket.Close()
		sink = bucket
	}

	m := newModel(ctx,
		article.NewFetcher(cfg.FetchTimeout(), cfg.MaxArticleLength),
		study.New(gemini.NewSummarizer(client), gemini.NewLanguageModel(client)),
		export.NewExporter(renderer, sink, cfg.ExportDelay()),
	)

	// Log lines would corrupt the terminal UI
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "iqcraft")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
