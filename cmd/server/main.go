package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/dnrewrite/internal/api"
	"github.com/dgallion1/dnrewrite/internal/config"
	"github.com/dgallion1/dnrewrite/internal/phrase"
	"github.com/dgallion1/dnrewrite/internal/pipeline"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
	"github.com/dgallion1/dnrewrite/internal/stats"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	table, err := phrase.LoadFile(cfg.PhraseFile)
	if err != nil {
		log.Error("invalid phrase table", "file", cfg.PhraseFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := rewrite.New(table, log)
	orch := pipeline.NewOrchestrator(cfg, engine, stats.New(cfg.StatsWindow), log)
	orch.Start(ctx)

	srv := api.NewServer(orch, table, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting dnrewrite", "port", cfg.Port, "phrases", table.Len(), "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
