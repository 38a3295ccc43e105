package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yield-harbor/internal/aggregate"
	"yield-harbor/internal/cache"
	"yield-harbor/internal/config"
	"yield-harbor/internal/db"
	"yield-harbor/internal/handler"
	"yield-harbor/internal/job"
	"yield-harbor/internal/repository"
	"yield-harbor/internal/service"
	"yield-harbor/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "yield-harbor/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initPostgresFunc     = db.InitPostgres
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	newVenueRateRepoFunc = repository.NewVenueRateRepository
	newAggregatorFunc    = func(tracer trace.Tracer, cfg *config.Config) service.YieldAggregator {
		return aggregate.NewAggregator(tracer, cfg.JupiterAPIKey, cfg.SolanaRPCURL)
	}
	newYieldServiceFunc    = service.NewYieldService
	newYieldPollerFunc     = job.NewYieldPoller
	startPollerFunc        = func(p *job.YieldPoller, ctx context.Context) { go p.Start(ctx) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Yield Harbor API
// @version         1.0
// @description     Aggregated Solana DeFi yield rates with carry-trade simulation.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repository and run migrations. Without a database the service
	// still serves live rates, just no history.
	var rateRepo service.RateRepository
	if db.Pool != nil {
		repo := newVenueRateRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		rateRepo = repo
	}

	// Create aggregator and yield service
	aggregator := newAggregatorFunc(tracer, cfg)
	yieldService := newYieldServiceFunc(tracer, aggregator, rateRepo, cache.Client)

	// Start yield poller (background goroutine, stopped by ctx cancel)
	poller := newYieldPollerFunc(tracer, yieldService, cfg.YieldPollSecs)
	startPollerFunc(poller, ctx)

	// Create handlers and routes
	h := newHandlerFunc(tracer, yieldService, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("yield-harbor"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
