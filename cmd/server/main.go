package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/i18n"
	"github.com/artsapp/builder/internal/infrastructure/audit"
	"github.com/artsapp/builder/internal/infrastructure/crypto"
	"github.com/artsapp/builder/internal/infrastructure/keyapi"
	"github.com/artsapp/builder/internal/infrastructure/monitoring"
	"github.com/artsapp/builder/internal/infrastructure/persistence/memory"
	"github.com/artsapp/builder/internal/infrastructure/persistence/redis"
	"github.com/artsapp/builder/internal/interfaces/http"
	"github.com/artsapp/builder/internal/interfaces/http/handlers"
	"github.com/artsapp/builder/internal/interfaces/http/middleware"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Load config
	loader := config.NewLoader(startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	loader.OnChange(func(c *config.Config) {
		appLogger.SetLevel(c.Log.Level)
	})
	loader.Watch()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal(context.Background(), "Server exited with error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *monitoring.ZapLogger) error {
	// Tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)

	// Session secret and tokens
	secrets, err := crypto.NewSecretProvider(cfg, appLogger)
	if err != nil {
		return err
	}
	secret, err := secrets.SigningSecret(ctx)
	if err != nil {
		return err
	}
	tokens := crypto.NewSessionTokens(secrets, cfg.Session.TTL, appLogger)

	checks := map[string]handlers.Checker{}

	// Session store
	var store repository.SessionStore
	if cfg.Session.Backend == "redis" {
		redisConn := redis.NewRedisConnection(&cfg.Redis, appLogger)
		if err := redisConn.Connect(ctx); err != nil {
			return err
		}
		defer redisConn.Close()
		store = redis.NewSessionStore(redisConn, cfg.Session.TTL, appLogger)
		checks["redis"] = func(ctx context.Context) error {
			_, err := redisConn.HealthCheck(ctx)
			return err
		}
	} else {
		store = memory.NewSessionStore(cfg.Session.TTL)
	}

	// Audit
	sinks, err := audit.NewSinks(ctx, cfg, string(secret), appLogger)
	if err != nil {
		return err
	}
	defer sinks.Close()
	if sinks.DB != nil {
		checks["audit_db"] = func(ctx context.Context) error {
			sqlDB, err := sinks.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	maxUpload, err := cfg.API.MaxUploadBytes()
	if err != nil {
		return err
	}

	// Key API and application services
	repos := keyapi.NewClient(&cfg.API,
		keyapi.WithMetrics(metrics),
		keyapi.WithLogger(appLogger),
	).Repositories()
	dictionaries := i18n.MustLoad()

	keys := service.NewKeyAppService(repos, sinks.Audit, metrics, appLogger)
	revisions := service.NewRevisionAppService(repos, sinks.Audit, metrics, appLogger)
	content := service.NewContentAppService(repos, sinks.Audit, metrics, appLogger)
	premises := service.NewPremiseAppService(repos, sinks.Audit, metrics, appLogger)
	organization := service.NewOrganizationAppService(repos, sinks.Audit, appLogger)
	media := service.NewMediaAppService(repos, maxUpload, sinks.Audit, appLogger)
	sessions := service.NewSessionAppService(repos, store, dictionaries, cfg.API.LoginURL, sinks.Audit, metrics, appLogger)

	// HTTP
	resp := response.NewResponder(dictionaries, appLogger)
	router := http.NewRouter(cfg, appLogger,
		http.Handlers{
			Health:       handlers.NewHealthHandler(checks, appLogger),
			Keys:         handlers.NewKeyHandler(keys, resp),
			Revisions:    handlers.NewRevisionHandler(revisions, resp),
			Content:      handlers.NewContentHandler(content, premises, resp),
			Organization: handlers.NewOrganizationHandler(organization, resp),
			Media:        handlers.NewMediaHandler(media, resp),
			Session:      handlers.NewSessionHandler(sessions, resp),
		},
		resp,
		middleware.Session(tokens, sessions, resp, middleware.CookieOptions{
			Path:   cookiePath(cfg.Server.BasePath),
			Secure: cfg.Server.SecureCookies,
		}, appLogger),
		middleware.Observability(tracing.Tracer(), otel.GetTextMapPropagator(), metrics),
		registry,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		appLogger.Info(shutdownCtx, "Shutting down", logger.String("base_path", cfg.Server.BasePath))
		return router.Stop(shutdownCtx)
	})
	return g.Wait()
}

func cookiePath(basePath string) string {
	if basePath == "" {
		return "/"
	}
	return basePath
}
