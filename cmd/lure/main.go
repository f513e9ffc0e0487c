package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decoynet/lure/internal/alert"
	"github.com/decoynet/lure/internal/api"
	"github.com/decoynet/lure/internal/backfill"
	"github.com/decoynet/lure/internal/composer"
	"github.com/decoynet/lure/internal/config"
	"github.com/decoynet/lure/internal/events"
	"github.com/decoynet/lure/internal/openai"
	"github.com/decoynet/lure/internal/responder"
	"github.com/decoynet/lure/internal/store"
)

func main() {
	backfillPath := flag.String("backfill", "", "replay a JSONL conversation dump instead of serving")
	flag.Parse()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("lure starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (optional — without it the honeypot still answers, it just
	// keeps no sightings)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without sighting store")
	}

	if *backfillPath != "" {
		runBackfill(ctx, db, *backfillPath)
		return
	}

	// Reply generator (optional — without credentials every reply is a
	// fixed fallback sentence)
	var gen responder.Generator
	if cfg.OpenAIAPIKey != "" {
		gen = openai.NewClient(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
		slog.Info("openai client ready", "model", cfg.Model)
	} else {
		slog.Warn("OPENAI_API_KEY not set — replies fall back to fixed responses")
	}

	// NATS (optional)
	var eventsClient *events.Client
	if cfg.NatsURL != "" {
		var err error
		eventsClient, err = events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without event stream")
	}

	// Slack poster (optional)
	var alertPoster *alert.Poster
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		alertPoster = alert.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured — running without capture alerts")
	}

	comp := composer.New(responder.New(gen, slog.Default()), db, eventsClient, alertPoster, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIToken, comp, db, eventsClient)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if eventsClient != nil {
		if err := eventsClient.Publish(events.SubjectAgentRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"generator": comp.GeneratorAvailable(),
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("lure ready", "port", cfg.Port, "generator", comp.GeneratorAvailable())

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("lure stopped")
}

func runBackfill(ctx context.Context, db *store.Store, path string) {
	if db == nil {
		slog.Warn("no store configured — backfill runs dry, nothing is written")
	}
	stats, err := backfill.NewRunner(db, slog.Default()).Run(ctx, path)
	if err != nil {
		slog.Error("backfill failed", "error", err)
		os.Exit(1)
	}
	slog.Info("backfill finished",
		"conversations", stats.Conversations,
		"flagged", stats.Flagged,
		"artifacts", stats.Artifacts,
		"stored", stats.Stored,
	)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
