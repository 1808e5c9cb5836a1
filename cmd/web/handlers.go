package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/auth"
	"github.com/decanter-app/decanter/internal/httputil"
	"github.com/decanter-app/decanter/internal/middleware"
	"github.com/decanter-app/decanter/internal/service"
	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/validate"
	"github.com/decanter-app/decanter/views"
)

// respond writes the result envelope for a service call.
func respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, r, http.StatusOK, data)
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
		httputil.WriteError(w, r, apperr.Server("Database unavailable"))
		return
	}
	httputil.WriteData(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, views.LoginPage(providerNames()))
}

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, views.HomePage())
}

func (a *app) handleAuthBegin(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
	gothic.BeginAuthHandler(w, r)
}

func (a *app) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, r, "Authentication failure", err)
		return
	}

	user, err := a.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, r, "Failed to find or create user", err)
		return
	}

	if err := a.sessions.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to start session", err)
		return
	}
	a.sessions.Put(r.Context(), middleware.SessionUserKey, user.ID.String())

	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to sign out", err)
		return
	}
	httputil.RedirectToLogin(w, r)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (a *app) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, r, apperr.Unauthenticated())
		return
	}

	token, expiresAt, err := a.tokens.Issue(claims)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to sign token")
		httputil.WriteError(w, r, apperr.Server("Error issuing token"))
		return
	}
	httputil.WriteData(w, r, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

func (a *app) handleSearchTournaments(w http.ResponseWriter, r *http.Request) {
	query, err := parseSearchQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	result, err := a.tournaments.SearchTournaments(r.Context(), query)
	respond(w, r, result, err)
}

func parseSearchQuery(r *http.Request) (service.SearchQuery, error) {
	params := r.URL.Query()
	q := service.SearchQuery{
		Query:    params.Get("q"),
		Division: tournament.Division(params.Get("division")),
		Location: params.Get("location"),
		Sort:     service.SortField(params.Get("sort")),
		Desc:     params.Get("order") == "desc",
	}

	fields := apperr.FieldErrors{}
	intParam := func(name string) int {
		raw := params.Get(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields.Add(name, "Must be a positive whole number")
		}
		return n
	}
	q.Page = intParam("page")
	q.PageSize = intParam("pageSize")

	if raw := params.Get("upcoming"); raw != "" {
		upcoming, err := strconv.ParseBool(raw)
		if err != nil {
			fields.Add("upcoming", "Must be true or false")
		}
		q.Upcoming = upcoming
	}

	if len(fields) > 0 {
		return q, apperr.Invalid(fields)
	}
	return q, nil
}

func (a *app) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	t, err := a.tournaments.GetTournamentBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, t, err)
}

func (a *app) handleUpsertTournament(w http.ResponseWriter, r *http.Request) {
	var input validate.TournamentInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	result, err := a.tournaments.UpsertTournament(r.Context(), input)
	respond(w, r, result, err)
}

func (a *app) handleManagedTournaments(w http.ResponseWriter, r *http.Request) {
	managed, err := a.tournaments.GetTournamentsManagedByUser(r.Context())
	respond(w, r, managed, err)
}

func (a *app) handleTournamentManagement(w http.ResponseWriter, r *http.Request) {
	mgmt, err := a.tournaments.GetTournamentManagement(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, mgmt, err)
}

func (a *app) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	body, err := a.tournaments.ExportApplicationsCSV(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteCSV(w, r, slug+"-applications.csv", body)
}

func (a *app) handleApplicationInfo(w http.ResponseWriter, r *http.Request) {
	info, err := a.applications.GetTournamentApplicationInfo(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, info, err)
}

func (a *app) handleSavedApplication(w http.ResponseWriter, r *http.Request) {
	saved, err := a.applications.GetSavedTournamentApplication(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, saved, err)
}

func (a *app) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	mine, err := a.applications.GetApplicationsForUser(r.Context())
	respond(w, r, mine, err)
}

func (a *app) handleUpsertApplication(w http.ResponseWriter, r *http.Request) {
	var input validate.ApplicationInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	result, err := a.applications.UpsertApplication(r.Context(), input)
	respond(w, r, result, err)
}

func (a *app) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.GetProfile(r.Context())
	respond(w, r, profile, err)
}

func (a *app) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var input validate.ProfileInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	profile, err := a.profiles.UpsertProfile(r.Context(), input)
	respond(w, r, profile, err)
}

// inviteID parses the {id} path segment. A malformed id resolves to no
// invite at all.
func inviteID(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (a *app) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	target, err := a.invites.GetInvite(r.Context(), inviteID(r))
	respond(w, r, target, err)
}

func (a *app) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	result, err := a.invites.AcceptInvite(r.Context(), inviteID(r))
	respond(w, r, result, err)
}
