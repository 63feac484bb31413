// Package server orchestrates all components: DB, cache, audit publisher,
// package router, and the HTTP/WebSocket surface.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/authors-service/internal/config"
	"github.com/morezero/authors-service/pkg/audit"
	"github.com/morezero/authors-service/pkg/cache"
	"github.com/morezero/authors-service/pkg/commsutil"
	"github.com/morezero/authors-service/pkg/db"
	"github.com/morezero/authors-service/pkg/handlers"
	"github.com/morezero/authors-service/pkg/router"
)

const logPrefix = "server:server"

// Server is the authors-service orchestrator.
type Server struct {
	cfg        *config.Config
	router     *router.Router
	pool       *pgxpool.Pool
	httpServer *http.Server
}

// New builds a Server around an already-registered router. The pool is
// used by the health endpoint and may be nil in tests.
func New(cfg *config.Config, rt *router.Router, pool *pgxpool.Pool) *Server {
	return &Server{cfg: cfg, router: rt, pool: pool}
}

// Handler builds the HTTP surface: REST authors + audit-logs routes,
// the WebSocket endpoint, and health checks.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ws", s.handleWS)

	r.HandleFunc("/api/authors", s.restHandler(restListAuthors)).Methods(http.MethodGet)
	r.HandleFunc("/api/authors", s.restHandler(restCreateAuthor)).Methods(http.MethodPost)
	r.HandleFunc("/api/authors/{id}", s.restHandler(restGetAuthor)).Methods(http.MethodGet)
	r.HandleFunc("/api/authors/{id}", s.restHandler(restUpdateAuthor)).Methods(http.MethodPatch, http.MethodPut)
	r.HandleFunc("/api/authors/{id}", s.restHandler(restDeleteAuthor)).Methods(http.MethodDelete)
	r.HandleFunc("/api/audit-logs", s.restHandler(restListAuditLogs)).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	return r
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	// Setup structured logging
	var logLevel slog.Level
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting authors-service", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Connect to database
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
	}
	defer pool.Close()

	// Step 1b: Run migrations if enabled
	if cfg.RunMigrations {
		migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
		if err != nil {
			return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
		}
		if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
			return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
		}
	}

	// Step 2: Optional Redis cache
	var authorCache *cache.Cache
	if cfg.RedisURL != "" {
		authorCache, err = cache.New(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("%s - failed to connect to redis: %w", logPrefix, err)
		}
		defer authorCache.Close()
		slog.Info(fmt.Sprintf("%s - Author cache enabled (ttl=%s)", logPrefix, cfg.CacheTTL))
	}

	// Step 3: Optional audit event publisher over NATS
	var publisher audit.Publisher
	var nc *comms.Conn
	if cfg.AuditEvents {
		nc, err = commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
		if err != nil {
			return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
		}
		publisher = audit.NewCommsPublisher(nc, &audit.CommsPublisherOpts{
			GlobalAuditSubject: cfg.AuditSubject,
		})
		slog.Info(fmt.Sprintf("%s - Audit events enabled on %s", logPrefix, cfg.AuditSubject))
	}

	// Step 4: Build service and register package handlers
	svc := handlers.NewService(handlers.NewServiceParams{
		Repo:      db.NewRepository(pool),
		Cache:     authorCache,
		Publisher: publisher,
	})
	rt := router.New()
	if err := svc.RegisterAll(rt); err != nil {
		if nc != nil {
			nc.Close()
		}
		return fmt.Errorf("%s - failed to register handlers: %w", logPrefix, err)
	}

	// Step 5: Start HTTP server
	s := New(cfg, rt, pool)
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = fmt.Sprintf(":%d", cfg.HTTPPort)
	}
	s.httpServer = &http.Server{Addr: httpAddr, Handler: s.Handler()}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Authors-service is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	s.httpServer.Shutdown(shutdownCtx)
	if nc != nil {
		nc.Drain()
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}
