package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/skillswap/docs"
	"github.com/sbilibin2017/skillswap/internal/cookie"
	"github.com/sbilibin2017/skillswap/internal/handlers"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/middlewares"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/repositories"
	"github.com/sbilibin2017/skillswap/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds everything read from the environment.
type config struct {
	AppHost   string
	AppPort   string
	LogLevel  string
	LogFormat string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	SessionCookieName   string
	SessionIdleTimeout  time.Duration
	SessionRetention    time.Duration
	SessionCookieSecure bool

	KafkaBrokers []string
	KafkaTopic   string

	FrontendDir       string
	SeedDefaultSkills bool
}

// @title SkillSwap API
// @version 1.0.0
// @description Skill exchange service: profiles, skill catalog, offered and wanted skills, swap requests
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sessionid
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild date: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application, database, Redis, session, Kafka and frontend configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}
	getBool := func(key, defaultValue string) (bool, error) {
		v, err := strconv.ParseBool(getEnv(key, defaultValue))
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("APP_LOG_FORMAT", "json")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}

	// Session config
	cfg.SessionCookieName = getEnv("SESSION_COOKIE_NAME", cookie.DefaultName)
	idleSeconds, err := getInt("SESSION_IDLE_TIMEOUT_SECOND", "1800")
	if err != nil {
		return
	}
	cfg.SessionIdleTimeout = time.Duration(idleSeconds) * time.Second
	retentionSeconds, err := getInt("SESSION_RETENTION_SECOND", "86400")
	if err != nil {
		return
	}
	cfg.SessionRetention = time.Duration(retentionSeconds) * time.Second
	if cfg.SessionRetention < cfg.SessionIdleTimeout {
		cfg.SessionRetention = cfg.SessionIdleTimeout
	}
	if cfg.SessionCookieSecure, err = getBool("SESSION_COOKIE_SECURE", "false"); err != nil {
		return
	}

	// Kafka config
	for _, broker := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "swap-requests")

	// Frontend and seeding
	cfg.FrontendDir = getEnv("FRONTEND_DIR", "frontend/dist")
	if cfg.SeedDefaultSkills, err = getBool("SEED_DEFAULT_SKILLS", "true"); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}
	if err := repositories.Migrate(ctx, db); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer, nil interface when no brokers are configured
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext
	userReadRepo := repositories.NewUserReadRepository(db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	skillReadRepo := repositories.NewSkillReadRepository(db, txGetter)
	skillWriteRepo := repositories.NewSkillWriteRepository(db, txGetter)
	userSkillReadRepo := repositories.NewUserSkillReadRepository(db, txGetter)
	userSkillWriteRepo := repositories.NewUserSkillWriteRepository(db, txGetter)
	swapReadRepo := repositories.NewSwapRequestReadRepository(db, txGetter)
	swapWriteRepo := repositories.NewSwapRequestWriteRepository(db, txGetter)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.SessionRetention)

	// Initialize services
	sessionService := services.NewSessionService(sessionRepo, services.WithIdleTimeout(cfg.SessionIdleTimeout))
	authService := services.NewAuthService(userReadRepo, userWriteRepo, sessionService)
	userService := services.NewUserService(userReadRepo, userWriteRepo, userSkillReadRepo)
	skillService := services.NewSkillService(skillReadRepo, skillWriteRepo)
	userSkillService := services.NewUserSkillService(skillReadRepo, userSkillReadRepo, userSkillWriteRepo)
	swapService := services.NewSwapRequestService(
		userReadRepo, skillReadRepo, swapReadRepo, swapWriteRepo, kafkaWriter,
		services.WithAfterCommit(middlewares.AfterCommit),
	)

	if cfg.SeedDefaultSkills {
		if _, err := skillService.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seeding default skills failed: %w", err)
		}
	}

	sessionCookie := cookie.New(
		cookie.WithName(cfg.SessionCookieName),
		cookie.WithMaxAge(cfg.SessionIdleTimeout),
		cookie.WithSecure(cfg.SessionCookieSecure),
	)

	// Setup router
	txMiddleware := middlewares.TxMiddleware(db)
	sessionMiddleware := middlewares.SessionMiddleware(sessionService, sessionCookie)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", handlers.NewHealthHandler())
		r.With(txMiddleware).Post("/auth/register", handlers.NewRegisterHandler(authService, sessionCookie))
		r.Post("/auth/login", handlers.NewLoginHandler(authService, sessionCookie))

		// Session-gated routes
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware)

			r.Post("/auth/logout", handlers.NewLogoutHandler(authService, sessionCookie))
			r.Get("/auth/session", handlers.NewSessionHandler(sessionService.IdleTimeout()))

			r.Get("/users", handlers.NewListUsersHandler(userService))
			r.Get("/users/profile", handlers.NewGetProfileHandler(userService))
			r.Put("/users/profile", handlers.NewUpdateProfileHandler(userService))
			r.Get("/users/search", handlers.NewSearchUsersHandler(userService))
			r.Get("/users/{id}", handlers.NewGetUserHandler(userService))
			r.Get("/users/{id}/skills", handlers.NewGetUserSkillsHandler(userService))

			r.Get("/skills", handlers.NewListSkillsHandler(skillService))
			r.Post("/skills", handlers.NewCreateSkillHandler(skillService))
			r.Get("/skills/{id}", handlers.NewGetSkillHandler(skillService))

			r.Get("/user-skills", handlers.NewListUserSkillsHandler(userSkillService))
			r.Post("/user-skills", handlers.NewCreateUserSkillHandler(userSkillService))
			r.With(txMiddleware).Post("/user-skills/bulk", handlers.NewBulkUserSkillsHandler(userSkillService))
			r.Get("/user-skills/{id}", handlers.NewGetUserSkillHandler(userSkillService))
			r.Put("/user-skills/{id}", handlers.NewUpdateUserSkillHandler(userSkillService))
			r.Delete("/user-skills/{id}", handlers.NewDeleteUserSkillHandler(userSkillService))

			r.Get("/swap-requests", handlers.NewListSwapRequestsHandler(swapService, models.SwapRoleAny))
			r.Get("/swap-requests/sent", handlers.NewListSwapRequestsHandler(swapService, models.SwapRoleSender))
			r.Get("/swap-requests/received", handlers.NewListSwapRequestsHandler(swapService, models.SwapRoleReceiver))
			r.With(txMiddleware).Post("/swap-requests", handlers.NewCreateSwapRequestHandler(swapService))
			r.Get("/swap-requests/{id}", handlers.NewGetSwapRequestHandler(swapService))
			r.With(txMiddleware).Put("/swap-requests/{id}", handlers.NewUpdateSwapRequestHandler(swapService))
		})
	})

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	// Everything else is the single-page frontend
	r.NotFound(handlers.NewFrontendHandler(cfg.FrontendDir))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
