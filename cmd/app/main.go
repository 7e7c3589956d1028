// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"promptquest/internal/config"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/game"
	aiAdapters "promptquest/internal/infra/adapters/ai"
	"promptquest/internal/infra/adapters/embedding"
	"promptquest/internal/infra/logging"
	"promptquest/internal/infra/metrics"
	red "promptquest/internal/infra/redis"
	"promptquest/internal/infra/router"
	"promptquest/internal/infra/security"
	"promptquest/internal/infra/web"
	"promptquest/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop providers allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	var encSvc *security.EncryptionService
	if cfg.Security.EncryptionKey != "" {
		encSvc, err = security.NewEncryptionService(cfg.Security.EncryptionKey)
		if err != nil {
			log.Fatalf("encryption: %v", err)
		}
	} else {
		logger.Warn().Msg("security.encryption_key not set; session payloads stored unencrypted")
	}
	store := red.NewProgressStore(redisClient, cfg.Redis.TTL, encSvc)

	// ---- Providers ----
	providers := make([]adapter.ModelProvider, 0, len(cfg.AI.Providers))
	for _, pc := range cfg.AI.Providers {
		p, err := buildProvider(ctx, pc, cfg)
		if err != nil {
			log.Fatalf("provider %s: %v", pc.Name, err)
		}
		providers = append(providers, aiAdapters.NewLimitedProvider(p, cfg.AI.ConcurrentLimit))
		logger.Info().Str("provider", pc.Name).Str("kind", pc.Kind).Str("model", pc.Model).Msg("provider configured")
	}

	// ---- Router over the shared provider ledger ----
	ledger := router.NewLedger(cfg.AI.LedgerPath, cfg.ProviderNames(), cfg.AI.LockTimeout, logger)
	rt := router.New(ledger, providers, cfg.AI.LedgerCap, logger)

	// ---- Game engine ----
	var embedder adapter.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder, err = embedding.NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)
		if err != nil {
			log.Fatalf("embedder: %v", err)
		}
	} else {
		logger.Warn().Msg("embedding.api_key not set; similarity checks degrade to floor scores")
	}
	sim := game.NewSimilarityService(embedder)
	evaluator := game.NewEvaluator(sim, logger)
	catalog := game.NewCatalog()

	// ---- Use cases ----
	chatUC := usecase.NewChatUseCase(rt, logger)
	playUC := usecase.NewPlayUseCase(store, chatUC, evaluator, catalog, rt, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Web.AdminSecret, !cfg.Runtime.Dev, cfg.Web.AdminTTL)
	srv := web.NewServer(playUC, auth, cfg.Web.AdminAPIKey, redisClient.Ping, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}

func buildProvider(ctx context.Context, pc config.ProviderConfig, cfg *config.Config) (adapter.ModelProvider, error) {
	switch strings.ToLower(pc.Kind) {
	case "openai":
		return aiAdapters.NewOpenAIProvider(pc.Name, pc.APIKey, pc.BaseURL, pc.Model, cfg.AI.MaxOutputTokens)
	case "gemini":
		return aiAdapters.NewGeminiProvider(ctx, pc.Name, pc.APIKey, pc.BaseURL, pc.Model, cfg.AI.MaxOutputTokens)
	case "compat":
		return aiAdapters.NewCompatProvider(pc.Name, pc.APIKey, pc.BaseURL, pc.Model, cfg.AI.MaxOutputTokens)
	case "noop":
		if !cfg.Runtime.Dev {
			return nil, fmt.Errorf("noop provider only allowed in dev mode")
		}
		return aiAdapters.NewNoopProvider(pc.Name), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", pc.Kind)
	}
}
