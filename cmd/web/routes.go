package main

import (
	"net/http"
	"slices"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"

	"github.com/decanter-app/decanter/internal/auth"
	"github.com/decanter-app/decanter/internal/catalog"
	"github.com/decanter-app/decanter/internal/config"
	"github.com/decanter-app/decanter/internal/middleware"
	"github.com/decanter-app/decanter/internal/service"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/validate"
)

type app struct {
	db           *sqlx.DB
	sessions     *scs.SessionManager
	tokens       *auth.Tokens
	userStore    *store.UserStore
	limiter      *middleware.RateLimiter
	users        *service.UserService
	tournaments  *service.TournamentService
	applications *service.ApplicationService
	profiles     *service.ProfileService
	invites      *service.InviteService
}

func newApp(cfg *config.Config, db *sqlx.DB, sessions *scs.SessionManager, events *catalog.Catalog) *app {
	userStore := store.NewUserStore(db)
	tournamentStore := store.NewTournamentStore(db)
	adminStore := store.NewAdminStore(db)
	applicationStore := store.NewApplicationStore(db)
	profileStore := store.NewProfileStore(db)
	v := validate.New(events)

	return &app{
		db:           db,
		sessions:     sessions,
		tokens:       auth.NewTokens(cfg.App.SecretKey, cfg.Auth.TokenLifetime),
		userStore:    userStore,
		limiter:      middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		users:        service.NewUserService(userStore),
		tournaments:  service.NewTournamentService(db, tournamentStore, adminStore, applicationStore, v),
		applications: service.NewApplicationService(tournamentStore, applicationStore, profileStore, v, events),
		profiles:     service.NewProfileService(profileStore, v),
		invites:      service.NewInviteService(db, adminStore),
	}
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.WithRequestLogger)
	r.Use(middleware.WithRecovery)
	r.Use(a.sessions.LoadAndSave)
	r.Use(middleware.LoadIdentity(a.sessions, a.userStore, a.tokens))

	r.Get("/health", a.handleHealth)

	r.Get("/login", a.handleLogin)
	r.Get("/auth/{provider}", a.handleAuthBegin)
	r.Get("/auth/{provider}/callback", a.handleAuthCallback)
	r.Post("/logout", a.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", a.handleHome)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tournaments", a.handleSearchTournaments)
		r.Get("/tournaments/{slug}", a.handleGetTournament)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIAuth)

			r.Get("/tournaments/{slug}/apply", a.handleApplicationInfo)
			r.Get("/tournaments/{slug}/application", a.handleSavedApplication)
			r.Get("/applications", a.handleMyApplications)
			r.Get("/profile", a.handleGetProfile)

			r.Get("/manage/tournaments", a.handleManagedTournaments)
			r.Get("/manage/tournaments/{slug}", a.handleTournamentManagement)
			r.Get("/manage/tournaments/{slug}/export.csv", a.handleExportApplications)

			r.Get("/invites/{id}", a.handleGetInvite)

			r.Group(func(r chi.Router) {
				r.Use(a.limiter.Limit)

				r.Post("/token", a.handleIssueToken)
				r.Post("/tournaments", a.handleUpsertTournament)
				r.Post("/applications", a.handleUpsertApplication)
				r.Put("/profile", a.handleUpsertProfile)
				r.Post("/invites/{id}/accept", a.handleAcceptInvite)
			})
		})
	})

	return r
}

// providerNames lists the configured OAuth providers in a stable order.
func providerNames() []string {
	var names []string
	for name := range goth.GetProviders() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
