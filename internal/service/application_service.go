package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/catalog"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/validate"
	"github.com/decanter-app/decanter/internal/volunteer"
)

type ApplicationService struct {
	tournaments *store.TournamentStore
	apps        *store.ApplicationStore
	profiles    *store.ProfileStore
	validator   *validate.Validator
	catalog     *catalog.Catalog
	now         clock
}

func NewApplicationService(tournaments *store.TournamentStore, apps *store.ApplicationStore, profiles *store.ProfileStore, v *validate.Validator, c *catalog.Catalog) *ApplicationService {
	return &ApplicationService{
		tournaments: tournaments,
		apps:        apps,
		profiles:    profiles,
		validator:   v,
		catalog:     c,
		now:         time.Now,
	}
}

type ApplicationResult struct {
	Submitted bool `json:"submitted"`
}

// visibleTournament filters a tournament lookup down to what a volunteer
// may see. Unapproved tournaments read as missing.
func visibleTournament(ctx context.Context, t *tournament.Tournament, err error) (*tournament.Tournament, error) {
	if err != nil {
		return nil, lookupError(ctx, tournamentNotFound, "Error retrieving tournament", err)
	}
	if !t.Approved {
		return nil, apperr.NotFoundf("%s", tournamentNotFound)
	}
	if !t.Division.Valid() {
		log.Ctx(ctx).Error().Str("tournament_id", t.ID.String()).Str("division", string(t.Division)).Msg("Tournament has an unknown division")
		return nil, apperr.Server("Error retrieving tournament")
	}
	return t, nil
}

func deadlinePassed() error {
	return apperr.New(apperr.DeadlinePassed, "The application deadline for this tournament has passed")
}

// UpsertApplication saves a draft or submits the caller's application.
// A submitted application can no longer be changed.
func (s *ApplicationService) UpsertApplication(ctx context.Context, input validate.ApplicationInput) (*ApplicationResult, error) {
	if fields := s.validator.Struct(&input); fields != nil {
		return nil, apperr.Invalid(fields)
	}

	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.tournaments.GetTournament(ctx, input.TournamentID)
	if t, err = visibleTournament(ctx, t, err); err != nil {
		return nil, err
	}
	now := s.now.utc()
	if !t.AcceptingApplications(now) {
		return nil, deadlinePassed()
	}

	if err := s.validator.Preferences(input.Preferences, t.Division); err != nil {
		fields := apperr.FieldErrors{}
		fields.Add("preferences", validate.PreferenceMessage(err))
		return nil, apperr.Invalid(fields)
	}
	for key := range input.Responses {
		if !t.ApplicationFields.Has(key) {
			return nil, apperr.New(apperr.InvalidReference, fmt.Sprintf("Unknown application field %q", key))
		}
	}

	if _, err := s.profiles.GetProfile(ctx, claims.Sub); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.VolunteerProfileNotFound, "Create a volunteer profile before applying")
		}
		return nil, storeError(ctx, "Error retrieving volunteer profile", err)
	}

	existing, err := s.apps.GetApplication(ctx, t.ID, claims.Sub)
	switch {
	case err == nil && existing.Submitted:
		return nil, apperr.New(apperr.AlreadySubmitted, "You have already submitted an application for this tournament")
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, storeError(ctx, "Error retrieving application", err)
	}

	app := &volunteer.Application{
		TournamentID: t.ID,
		UserID:       claims.Sub,
		Preferences:  validate.ToPreferences(input.Preferences),
		Responses:    volunteer.Responses(input.Responses),
		Submitted:    input.Mode == volunteer.ModeSubmit,
		UpdatedAt:    now,
	}
	if err := s.apps.UpsertApplication(ctx, app); err != nil {
		return nil, storeError(ctx, "Error saving application", err)
	}

	if app.Submitted {
		log.Ctx(ctx).Info().Str("tournament_id", t.ID.String()).Msg("Application submitted")
	}
	return &ApplicationResult{Submitted: app.Submitted}, nil
}

// ApplicationInfo is everything the apply form needs to render.
type ApplicationInfo struct {
	TournamentID      uuid.UUID                    `json:"tournamentId"`
	Name              string                       `json:"name"`
	Division          tournament.Division          `json:"division"`
	ApplyDeadline     time.Time                    `json:"applyDeadline"`
	ApplicationFields tournament.ApplicationFields `json:"applicationFields"`
	Events            []string                     `json:"events"`
	// ProfilePreferences prefills the form from the volunteer's profile.
	ProfilePreferences *volunteer.Preferences `json:"profilePreferences"`
}

// GetTournamentApplicationInfo returns the apply form for slug, or
// DEADLINE_PASSED once the tournament stops taking applications.
func (s *ApplicationService) GetTournamentApplicationInfo(ctx context.Context, slug string) (*ApplicationInfo, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.tournaments.GetTournamentBySlug(ctx, slug)
	if t, err = visibleTournament(ctx, t, err); err != nil {
		return nil, err
	}
	if !t.AcceptingApplications(s.now.utc()) {
		return nil, deadlinePassed()
	}

	info := &ApplicationInfo{
		TournamentID:      t.ID,
		Name:              t.Name,
		Division:          t.Division,
		ApplyDeadline:     t.ApplyDeadline,
		ApplicationFields: t.ApplicationFields,
		Events:            s.catalog.Events(t.Division),
	}
	if info.ApplicationFields == nil {
		info.ApplicationFields = tournament.ApplicationFields{}
	}

	profile, err := s.profiles.GetProfile(ctx, claims.Sub)
	switch {
	case err == nil:
		prefs := profile.PreferencesC
		if t.Division == tournament.DivisionB {
			prefs = profile.PreferencesB
		}
		info.ProfilePreferences = &prefs
	case !errors.Is(err, sql.ErrNoRows):
		return nil, storeError(ctx, "Error retrieving volunteer profile", err)
	}
	return info, nil
}

// GetSavedTournamentApplication returns the caller's draft or submission
// for slug, or nil when nothing has been saved.
func (s *ApplicationService) GetSavedTournamentApplication(ctx context.Context, slug string) (*volunteer.Application, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.tournaments.GetTournamentIDBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError(ctx, tournamentNotFound, "Error retrieving tournament", err)
	}

	app, err := s.apps.GetApplication(ctx, id, claims.Sub)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "Error retrieving application", err)
	}
	return app, nil
}

// GetApplicationsForUser lists the caller's applications, most recently
// updated first.
func (s *ApplicationService) GetApplicationsForUser(ctx context.Context) ([]volunteer.UserApplication, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListForUser(ctx, claims.Sub)
	if err != nil {
		return nil, storeError(ctx, "Error retrieving applications", err)
	}
	return apps, nil
}
