package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/freshmarket/freshmarket/internal/auth"
	"github.com/freshmarket/freshmarket/internal/biometric"
	"github.com/freshmarket/freshmarket/internal/config"
	"github.com/freshmarket/freshmarket/internal/event"
	handler "github.com/freshmarket/freshmarket/internal/handler/http"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository/postgres"
	redisrepo "github.com/freshmarket/freshmarket/internal/repository/redis"
	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/migrations"
	"github.com/freshmarket/freshmarket/pkg/database"
	"github.com/freshmarket/freshmarket/pkg/health"
	"github.com/freshmarket/freshmarket/pkg/httpclient"
	pkgkafka "github.com/freshmarket/freshmarket/pkg/kafka"
)

// App wires together all dependencies and runs the marketplace server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "freshmarket"))

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Parse JWT expiry durations. Validated at config load.
	accessExpiry, _ := time.ParseDuration(cfg.JWTAccessExpiry)
	refreshExpiry, _ := time.ParseDuration(cfg.JWTRefreshExpiry)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, accessExpiry, refreshExpiry)

	// Photo-match verifier. Without a configured service the document checks
	// alone decide the outcome.
	var verifier biometric.Verifier
	if cfg.BiometricURL != "" {
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = time.Duration(cfg.BiometricTimeoutMs) * time.Millisecond
		cbClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(clientCfg),
			httpclient.DefaultCircuitBreakerConfig("biometric"),
			logger,
		)
		verifier = biometric.NewHTTPVerifier(cbClient, cfg.BiometricURL, logger)
	} else {
		verifier = biometric.StaticVerifier{Verdict: true}
	}

	// Build the dependency graph.
	moderator := moderation.NewLexiconModerator()
	eventProducer := event.NewProducer(producer, logger)

	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(pool)
	blogRepo := postgres.NewBlogRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	likeRepo := postgres.NewLikeRepository(pool)
	shareRepo := postgres.NewShareRepository(pool)
	pollRepo := postgres.NewPollRepository(pool)
	voteRepo := postgres.NewVoteRepository(pool)
	verificationRepo := postgres.NewVerificationRepository(pool)
	gardenRepo := postgres.NewGardenRepository(pool)
	farmerRepo := postgres.NewFarmerRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	cartRepo := redisrepo.NewCartRepository(rdb, cfg.CartTTL())

	svcs := handler.Services{
		Products:      service.NewProductService(productRepo, moderator, eventProducer, logger),
		Carts:         service.NewCartService(cartRepo, productRepo, eventProducer, logger),
		Users:         service.NewUserService(userRepo, refreshTokenRepo, jwtManager, eventProducer, logger),
		Blogs:         service.NewBlogService(blogRepo, commentRepo, likeRepo, shareRepo, moderator, eventProducer, logger),
		Polls:         service.NewPollService(pollRepo, voteRepo, eventProducer, logger),
		Verifications: service.NewVerificationService(verificationRepo, verifier, eventProducer, logger),
		Gardens:       service.NewGardenService(gardenRepo, farmerRepo, logger),
		Reviews:       service.NewReviewService(reviewRepo, productRepo, moderator, logger),
		Banners:       service.NewBannerService(bannerRepo, categoryRepo, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(svcs, handler.RouterConfig{
		JWTManager:    jwtManager,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		LoginRPS:   cfg.LoginRateRPS,
		LoginBurst: cfg.LoginRateBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: the HTTP server drains in-flight
// requests first, then the Kafka producer, Redis client, and PostgreSQL pool
// close behind it.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
