package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/peteliu66/Tmall-Model-Generation/internal/gallery"
	"github.com/peteliu66/Tmall-Model-Generation/internal/genai"
	"github.com/peteliu66/Tmall-Model-Generation/internal/http/handlers"
	"github.com/peteliu66/Tmall-Model-Generation/internal/http/httpapi"
	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
	"github.com/peteliu66/Tmall-Model-Generation/internal/storage"
	"github.com/peteliu66/Tmall-Model-Generation/internal/studio"
)

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	// A missing GEMINI_API_KEY is fatal here; nothing works without it.
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	generator, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct gemini client")
	}

	// Persistence degrades to a no-op when the database or the store is not
	// configured or not reachable; generation itself keeps working.
	var persister studio.Persister = gallery.NewDisabled(logger)
	staticDir := ""
	if cfg.PersistenceEnabled() {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("persistence disabled: database unreachable")
		} else {
			defer pool.Close()
			store, err := storage.NewFileStore(cfg.StorageDir)
			if err != nil {
				logger.Warn().Err(err).Msg("persistence disabled: storage unavailable")
			} else {
				persister = gallery.NewPersister(store, gallery.NewRepository(pool), cfg.StorageBaseURL, logger)
				staticDir = store.BasePath()
			}
		}
	} else {
		logger.Warn().Msg("DATABASE_URL or STORAGE_DIR not set; persistence and gallery disabled")
	}

	session := studio.NewSession(ctx, generator, persister, logger)
	app := handlers.NewApp(session, logger)
	router := httpapi.NewRouter(app, logger, staticDir)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
