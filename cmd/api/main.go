package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"homefix/internal/adapter/repo"
	"homefix/internal/diagnosis"
	"homefix/internal/http/handlers"
	"homefix/internal/http/httpapi"
	"homefix/internal/infra"
	"homefix/internal/infra/credentials"
	"homefix/internal/infra/geoip"
	"homefix/internal/middleware"
	"homefix/internal/providers/genai"
	"homefix/internal/providers/transcribe"
	"homefix/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	creds := credentials.NewStore(sqlRunner)

	client := newAIClient(ctx, cfg, creds, logger)
	sessions := diagnosis.NewManager(client, logger, cfg.MaxSessions, cfg.SessionTTL)
	transcriber := transcribe.NewGenAITranscriber(client)
	drafts := repo.NewDraftRepository(sqlRunner)

	app := handlers.NewApp(logger, sessions, drafts, files, transcriber)
	router := httpapi.NewRouter(app, logger, cfg, lookup)
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

// newAIClient selects the provider: Gemini when a key is available, the
// deterministic static client otherwise so local development works offline.
// The key comes from the environment first, then from the credentials store
// populated by the geminikey command.
func newAIClient(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger infra.Logger) genai.Client {
	if cfg.AIProvider == "static" {
		return genai.NewStaticClient()
	}
	key := cfg.GeminiAPIKey
	if key == "" {
		stored, err := creds.GeminiAPIKey(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to read gemini key from credentials store")
		}
		key = stored
	}
	if key == "" {
		logger.Warn().Msg("no Gemini API key configured, using static provider")
		return genai.NewStaticClient()
	}
	client, err := genai.NewGeminiClient(genai.GeminiOptions{
		APIKey:  key,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}
	return client
}
