// Package main provides the main entry point for the panel registry service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/panel-registry/app/handlers"
	"github.com/amirphl/panel-registry/app/logging"
	"github.com/amirphl/panel-registry/app/router"
	"github.com/amirphl/panel-registry/app/services"
	businessflow "github.com/amirphl/panel-registry/business_flow"
	"github.com/amirphl/panel-registry/config"
	"github.com/amirphl/panel-registry/migrations"
	"github.com/amirphl/panel-registry/repository"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	stopFuncs []func()
}

func main() {
	cmd := &cli.Command{
		Name:   "panel-registry",
		Usage:  "CRUD API for admins, panel members and users",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func serve(ctx context.Context, _ *cli.Command) error {
	log.Println("Starting panel registry application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logOutput, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer logOutput.Close()

	app, err := initializeApplication(ctx, cfg, logOutput)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		for _, fn := range app.stopFuncs {
			fn()
		}
	}()

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		serverErr <- app.router.Start(address)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-sigChan:
	}
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

func migrate(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Up(ctx, sqlDB); err != nil {
		return err
	}

	version, err := migrations.Version(sqlDB)
	if err != nil {
		return err
	}
	log.Printf("Database schema at version %d", version)
	return nil
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig, password string) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB
	if password != "" {
		opt.Password = password
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication wires repositories, flows, handlers and the router
func initializeApplication(ctx context.Context, cfg *config.ProductionConfig, logOutput *logging.Output) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	var stopFuncs []func()
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stopFuncs = append(stopFuncs, func() { _ = sqlDB.Close() })

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, sqlDB); err != nil {
			return nil, err
		}
	}

	rc, err := initializeCache(cfg.Cache, cfg.Deployment.RedisPassword)
	if err != nil {
		return nil, err
	}

	var attempts *businessflow.LoginAttemptLimiter
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(ctx, rc, 0))
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
		attempts = businessflow.NewLoginAttemptLimiter(rc, cfg.Cache.RedisPrefix, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	} else {
		log.Println("Redis disabled, login attempt limiting is off")
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	// Repositories
	seqRepo := repository.NewSequenceRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Business flows
	adminFlow := businessflow.NewAdminFlow(adminRepo, seqRepo, cfg.Security.BcryptCost)
	memberFlow := businessflow.NewMemberFlow(memberRepo, seqRepo)
	userFlow := businessflow.NewUserFlow(userRepo, seqRepo, cfg.Security.BcryptCost)
	loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, attempts, cfg.Security.PasswordMinLength, cfg.Security.BcryptCost)

	// Handlers
	timeout := cfg.Server.RequestTimeout
	r := router.NewFiberRouter(cfg, router.Handlers{
		Admin:  handlers.NewResourceHandler(adminFlow, timeout),
		Member: handlers.NewResourceHandler(memberFlow, timeout),
		User:   handlers.NewResourceHandler(userFlow, timeout),
		Auth:   handlers.NewAuthHandler(loginFlow, timeout),
	}, logOutput.Writer)

	return &Application{
		router:    r,
		config:    cfg,
		stopFuncs: stopFuncs,
	}, nil
}
