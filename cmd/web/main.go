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

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/decanter-app/decanter/internal/catalog"
	"github.com/decanter-app/decanter/internal/config"
	"github.com/decanter-app/decanter/internal/db"
	"github.com/decanter-app/decanter/internal/middleware"
	"github.com/decanter-app/decanter/internal/store"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	approve := flag.String("approve", "", "approve the tournament with this slug and exit")
	unapprove := flag.String("unapprove", "", "hide the tournament with this slug and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	switch {
	case *approve != "":
		exitOn(setApproved(ctx, database, *approve, true))
		return
	case *unapprove != "":
		exitOn(setApproved(ctx, database, *unapprove, false))
		return
	}

	events := catalog.Default()
	if cfg.Catalog.Path != "" {
		if events, err = catalog.LoadFile(cfg.Catalog.Path); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load event catalog")
		}
	}

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Auth.SessionLifetime
	sessionManager.Cookie.Secure = cfg.IsProduction()
	switch database.DriverName() {
	case db.DriverSQLite:
		sessionManager.Store = sqlite3store.New(database.DB)
	default:
		sessionManager.Store = postgresstore.New(database.DB)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(newApp(cfg, database, sessionManager, events)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

// setApproved publishes or hides a tournament. Approval is an operator
// action with no HTTP surface.
func setApproved(ctx context.Context, database *sqlx.DB, slug string, approved bool) error {
	tournaments := store.NewTournamentStore(database)
	id, err := tournaments.GetTournamentIDBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find tournament %q: %w", slug, err)
	}
	if err := tournaments.SetApproved(ctx, id, approved); err != nil {
		return fmt.Errorf("update tournament %q: %w", slug, err)
	}
	log.Info().Str("slug", slug).Bool("approved", approved).Msg("Tournament approval updated")
	return nil
}

func exitOn(err error) {
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
