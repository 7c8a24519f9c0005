// Package main is the entry point for the Trip Pantry API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"

	"github.com/avoss/trip-pantry/internal/config"
	"github.com/avoss/trip-pantry/internal/handler"
	"github.com/avoss/trip-pantry/internal/middleware"
	"github.com/avoss/trip-pantry/internal/repo"
	"github.com/avoss/trip-pantry/internal/service"
	"github.com/avoss/trip-pantry/internal/store"
	"github.com/avoss/trip-pantry/internal/store/memory"
	pgstore "github.com/avoss/trip-pantry/internal/store/postgres"
	sqlitestore "github.com/avoss/trip-pantry/internal/store/sqlite"
	pgmigrations "github.com/avoss/trip-pantry/migrations/postgres"
	sqlitemigrations "github.com/avoss/trip-pantry/migrations/sqlite"
)

// maxBodyBytes limits request bodies to 1 MiB. No legitimate payload in this
// API comes anywhere close.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	st, cleanup, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	// --- Repositories & services -------------------------------------------
	trips := repo.NewTripRepo(st)
	participants := repo.NewParticipantRepo(st)
	products := repo.NewProductRepo(st)
	consumptions := repo.NewConsumptionRepo(st)
	availabilities := repo.NewAvailabilityRepo(st)

	srvTrips := service.NewTripService(trips, participants, consumptions, availabilities)
	srvParticipants := service.NewParticipantService(trips, participants, consumptions, availabilities)
	srvProducts := service.NewProductService(products, consumptions)
	srvConsumptions := service.NewConsumptionService(trips, participants, products, consumptions)
	srvAvailabilities := service.NewAvailabilityService(trips, participants, availabilities)
	srvShoppingLists := service.NewShoppingListService(trips, products, consumptions, availabilities)

	server := handler.NewServer(srvTrips, srvParticipants, srvProducts, srvConsumptions, srvAvailabilities, srvShoppingLists)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore selects and opens the persistence engine named by the config,
// applying pending migrations where the engine has any. The returned cleanup
// releases whatever the engine holds open.
func openStore(cfg config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), func() {}, nil

	case config.DriverSQLite:
		st, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(st.DB(), goose.DialectSQLite3, sqlitemigrations.FS); err != nil {
			st.Close()
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil

	case config.DriverPostgres:
		// Migrations run over database/sql; the store itself uses the pool.
		mdb, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(mdb, goose.DialectPostgres, pgmigrations.FS); err != nil {
			mdb.Close()
			return nil, nil, err
		}
		mdb.Close()

		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.New(pool), pool.Close, nil
	}
	// config.Load already rejected unknown drivers.
	panic("unreachable store driver: " + cfg.StoreDriver)
}

// migrate applies all pending goose migrations from fsys.
func migrate(db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "source", res.Source.Path)
	}
	return nil
}
