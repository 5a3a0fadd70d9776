package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/auth"
	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	api "github.com/rogerio-castellano/product-catalog/internal/http"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// @title Financial Products Catalog API
// @version 1.0
// @description REST API for managing the catalog of bank financial products.
// @host localhost:3002
// @BasePath /bp
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	loader, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg := loader.Get()

	log, level := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	handlers.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, closeStorage, err := openProductRepo(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()

		cache := redissvc.NewRedisService(rdb, ctx, cfg.Redis.Prefix, cfg.Redis.TTL)
		if err := cache.Ping(); err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}
		products = repo.NewCachedProductRepository(products, cache, log)
		log.Info(ctx, "redis cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}
	handlers.SetProductRepo(products)

	routerCfg := api.RouterConfig{BasePath: cfg.Server.BasePath, Logger: log}

	if cfg.Auth.Enabled {
		issuer, err := setupAuth(cfg.Auth)
		if err != nil {
			return err
		}
		routerCfg.Issuer = issuer
	}

	var limiter *rl.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Idle)
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
		routerCfg.Limiter = limiter
	}

	if configFile != "" {
		loader.Subscribe(func(c *config.Config) {
			level.Set(logging.ParseLevel(c.Log.Level))
			if limiter != nil {
				limiter.SetLimit(c.RateLimit.RPS, c.RateLimit.Burst)
			}
			log.Info(context.Background(), "configuration reloaded", "log_level", c.Log.Level, "rps", c.RateLimit.RPS, "burst", c.RateLimit.Burst)
		})
		loader.Watch(func(err error) {
			log.Warn(context.Background(), "ignoring invalid configuration", "error", err)
		})
	}

	docs.SwaggerInfo.BasePath = cfg.Server.BasePath

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server running", "addr", cfg.Server.Addr, "base_path", cfg.Server.BasePath, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openProductRepo builds the repository for the configured driver. The
// returned func releases its resources.
func openProductRepo(ctx context.Context, cfg *config.Config, log logging.Logger) (repo.ProductRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		database, err := db.Connect(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.Migrate {
			if err := db.RunMigrations(ctx, database); err != nil {
				database.Close()
				return nil, nil, err
			}
		}
		return repo.NewPostgresProductRepository(database), func() { database.Close() }, nil

	case "sqlite":
		gdb, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		r := repo.NewGormProductRepository(gdb)
		if err := r.AutoMigrate(); err != nil {
			db.CloseSQLite(gdb)
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return r, func() { db.CloseSQLite(gdb) }, nil

	default:
		log.Warn(ctx, "using the in-memory repository, data is lost on restart")
		return repo.NewInMemoryProductRepository(repo.SeedProducts()...), func() {}, nil
	}
}

func setupAuth(cfg config.AuthConfig) (*auth.TokenIssuer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	users := repo.NewInMemoryUserRepository()
	if _, err := users.CreateUser(models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    time.Now(),
	}); err != nil {
		return nil, err
	}

	issuer := auth.NewTokenIssuer(cfg.Secret, cfg.TokenTTL)
	handlers.SetUserRepo(users)
	handlers.SetTokenIssuer(issuer)
	return issuer, nil
}
