package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docnif/internal/api"
	"github.com/dgallion1/docnif/internal/config"
	"github.com/dgallion1/docnif/internal/history"
	"github.com/dgallion1/docnif/internal/nif"
	"github.com/dgallion1/docnif/internal/parser"
	"github.com/dgallion1/docnif/internal/pdftext"
	"github.com/dgallion1/docnif/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage and clients.
	store, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Error("open submission history", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	backend := nif.NewClient(nif.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		RPS:     cfg.BackendRPS,
		Stats:   nif.NewLatencyStats(time.Hour),
		Logger:  log,
	})

	// Initialize pipeline.
	ex := pdftext.NewExtractor(pdftext.Options{
		Order:    cfg.Order(),
		MaxPages: cfg.MaxPages,
		Logger:   log,
	})
	registry := parser.NewRegistry(ex, cfg.ExtraFormats)
	orch := pipeline.NewOrchestrator(cfg, registry, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, backend, backend.Stats(), store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		backend.Close()
		if err := store.Close(); err != nil {
			log.Warn("close submission history", "error", err)
		}
	}()

	log.Info("starting docnif",
		"port", cfg.Port,
		"backend", cfg.BackendURL,
		"reading_order", cfg.Order().String(),
		"extra_formats", cfg.ExtraFormats,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
