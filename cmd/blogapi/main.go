// Package main is the entry point for the blog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"blogapi/internal/account"
	"blogapi/internal/auth"
	"blogapi/internal/blog"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/handlers"
	"blogapi/internal/logging"
	"blogapi/internal/router"
	"blogapi/internal/session"
	"blogapi/internal/store"
	"blogapi/internal/valkey"
)

func main() {
	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logging.New(cfg.Env, cfg.LogLevel)

	log.Info().
		Str("env", cfg.Env).
		Str("addr", cfg.Addr()).
		Str("store", cfg.StoreDriver).
		Msg("configuration loaded")

	checks := map[string]handlers.Check{}

	// Storage backend.
	var (
		blogRepo blog.Repository
		userRepo account.Users
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := store.NewMemory()
		blogRepo, userRepo = mem.Blogs, mem.Users
		log.Warn().Msg("using in-memory store; data is lost on restart")

		if cfg.IsDev() {
			if err := database.SeedStore(context.Background(), mem.Users, mem.Blogs); err != nil {
				log.Fatal().Err(err).Msg("failed to seed memory store")
			}
		}

	default:
		db := openPostgres(cfg)
		defer db.Close()
		blogRepo, userRepo = store.NewBlogStore(db), store.NewUserStore(db)
		checks["postgres"] = db.PingContext
	}

	// Valkey backs sessions and token revocation. Without it, tokens stay
	// valid until they expire and session cookies are not issued.
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	secureCookies := !cfg.IsDev()

	var (
		resolver *auth.Resolver
		authH    *handlers.Auth
	)
	if addr := cfg.RedisAddr(); addr != "" {
		client, err := valkey.Connect(addr, cfg.ValkeyPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to valkey")
		}
		defer client.Close()
		checks["valkey"] = pingValkey(client)

		denylist := valkey.NewDenylist(client)
		sessions := session.NewStore(client, secureCookies)

		resolver = auth.NewResolver(tokens, denylist, sessions)
		authH = handlers.NewAuth(account.NewService(userRepo, tokens, denylist), sessions, resolver, secureCookies)
	} else {
		log.Warn().Msg("valkey not configured; sessions and logout revocation disabled")

		resolver = auth.NewResolver(tokens, nil, nil)
		authH = handlers.NewAuth(account.NewService(userRepo, tokens, nil), nil, resolver, secureCookies)
	}

	blogsH := handlers.NewBlogs(blog.NewService(blogRepo), resolver)
	r := router.New(blogsH, authH, handlers.NewHealth(checks), cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped gracefully")
}

// openPostgres connects, migrates and, in development, seeds the database.
// Any failure is fatal.
func openPostgres(cfg *config.Config) *sql.DB {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			db.Close()
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	return db
}

func pingValkey(client *redis.Client) handlers.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
