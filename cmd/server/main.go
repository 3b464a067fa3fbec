package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pep299/iqcraft/internal/config"
	"github.com/pep299/iqcraft/internal/handlers"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("IQ-Craft Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  GEMINI_API_KEY        Gemini API key (AI features are unavailable without it)\n")
		fmt.Printf("  GEMINI_MODEL          Gemini model (default: gemini-2.5-flash)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		fmt.Printf("  MAX_ARTICLE_LENGTH    Maximum article characters (default: 100000)\n")
		fmt.Printf("  CACHE_TYPE            Cache type: memory or none (default: memory)\n")
		fmt.Printf("  CACHE_SWEEP_SCHEDULE  Cron schedule for dropping expired summaries (default: @every 10m)\n")
		fmt.Printf("  BRAND                 Label printed on exported flashcards (default: IQ-Craft)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("IQ-Craft Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create server
	server, err := handlers.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Expired summaries are dropped on a schedule rather than on every request
	c := cron.New()
	if manager := server.CacheManager(); manager != nil {
		_, err := c.AddFunc(cfg.CacheSweepSchedule, func() {
			removed, err := manager.Sweep(ctx)
			if err != nil {
				log.Printf("❌ Cache sweep failed: %v", err)
				return
			}
			if removed > 0 {
				log.Printf("🧹 Cache sweep removed=%d", removed)
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule cache sweep: %v", err)
		}
		log.Printf("📅 Scheduled cache sweep with cron: %s", cfg.CacheSweepSchedule)
	}
	c.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s:%s", cfg.Host, cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Println("🛑 Shutting down server...")

	cancel()
	<-c.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Server stopped")
}
