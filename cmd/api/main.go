package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/moodlist/internal/adapters/breaker"
	"github.com/ewilliams-labs/moodlist/internal/adapters/groq"
	"github.com/ewilliams-labs/moodlist/internal/adapters/ollama"
	"github.com/ewilliams-labs/moodlist/internal/adapters/rest"
	"github.com/ewilliams-labs/moodlist/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodlist/internal/adapters/sqlite"
	"github.com/ewilliams-labs/moodlist/internal/config"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/core/services"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("moodlist exited")
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// 2. Driven adapters
	var (
		ledger   ports.PlaylistLedger
		recorder ports.ExportRecorder
	)
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := sqlite.NewAdapter(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		pool := worker.NewPool(db, cfg.Worker.Workers, cfg.Worker.QueueSize)
		pool.Start()
		defer pool.Stop()

		ledger, recorder = db, pool
	case "none":
		logging.Info().Msg("playlist export ledger disabled")
	}

	llm := breaker.NewGenerator(newTextGenerator(cfg.LLM), breaker.Settings{
		Name:             cfg.LLM.Provider,
		FailureThreshold: cfg.LLM.BreakerFailureThreshold,
		OpenTimeout:      cfg.LLM.BreakerOpenTimeout,
	})

	catalog := spotify.NewConnector(spotify.Options{
		BaseURL:           cfg.Spotify.BaseURL,
		Timeout:           cfg.Spotify.CallTimeout,
		MaxRetries:        cfg.Spotify.MaxRetries,
		RetryBackoff:      cfg.Spotify.RetryBackoff,
		RequestsPerSecond: cfg.Spotify.RequestsPerSecond,
		Burst:             cfg.Spotify.Burst,
	})

	// 3. Core
	svc := services.NewOrchestrator(services.Options{
		Generator:        llm,
		Catalog:          catalog,
		Recorder:         recorder,
		Ledger:           ledger,
		CandidateCount:   cfg.Pipeline.CandidateCount,
		LLMTimeout:       cfg.LLM.CallTimeout,
		CatalogTimeout:   cfg.Spotify.CallTimeout,
		Concurrency:      cfg.Pipeline.ResolveConcurrency,
		FallbackMinScore: cfg.Pipeline.FallbackMinScore,
	})

	// 4. Driving adapter
	handler := rest.NewHandler(svc, rest.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Str("llm_provider", cfg.LLM.Provider).
			Str("llm_model", cfg.LLM.Model).
			Str("storage", cfg.Storage.Driver).
			Msg("moodlist API listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
	return nil
}

func newTextGenerator(cfg config.LLMConfig) ports.TextGenerator {
	if cfg.Provider == "ollama" {
		return ollama.NewClient(cfg.BaseURL, cfg.Model, cfg.Temperature)
	}
	return groq.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature)
}
