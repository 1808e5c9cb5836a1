package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/casing"
	"github.com/decanter-app/decanter/internal/db"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/utils"
	"github.com/decanter-app/decanter/internal/validate"
	"github.com/decanter-app/decanter/internal/volunteer"
)

// managementApplicationLimit caps the submissions returned with the
// management view.
const managementApplicationLimit = 100

const unknownValue = "Unknown"

type TournamentService struct {
	db        *sqlx.DB
	store     *store.TournamentStore
	admins    *store.AdminStore
	apps      *store.ApplicationStore
	validator *validate.Validator
	now       clock
}

func NewTournamentService(db *sqlx.DB, tournaments *store.TournamentStore, admins *store.AdminStore, apps *store.ApplicationStore, v *validate.Validator) *TournamentService {
	return &TournamentService{
		db:        db,
		store:     tournaments,
		admins:    admins,
		apps:      apps,
		validator: v,
		now:       time.Now,
	}
}

// UpsertResult carries the slug of a newly created tournament. Updates
// return an empty result.
type UpsertResult struct {
	Slug string `json:"slug,omitempty"`
}

// UpsertTournament creates a tournament when input.ID is nil and updates
// the identified one otherwise.
func (s *TournamentService) UpsertTournament(ctx context.Context, input validate.TournamentInput) (*UpsertResult, error) {
	input.Normalize()
	if fields := s.validator.Struct(&input); fields != nil {
		return nil, apperr.Invalid(fields)
	}

	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	if input.ID == nil {
		return s.createTournament(ctx, claims.Sub, input)
	}
	return s.updateTournament(ctx, claims.Sub, *input.ID, input)
}

// slugAttempts bounds how often creation retries with a fresh id after a
// slug collision.
const slugAttempts = 3

func (s *TournamentService) createTournament(ctx context.Context, userID uuid.UUID, input validate.TournamentInput) (*UpsertResult, error) {
	now := s.now.utc()
	season := tournament.Season(input.StartDate.Time)

	t := &tournament.Tournament{
		Name:              input.Name,
		ImageURL:          utils.StringOrNil(input.ImageURL),
		WebsiteURL:        utils.StringOrNil(input.WebsiteURL),
		Location:          input.Location,
		Division:          input.Division,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		ApplyDeadline:     input.ApplyDeadline.UTC(),
		ClosedEarly:       input.ClosedEarly,
		ApplicationFields: input.ApplicationFields,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var err error
	for range slugAttempts {
		t.ID = uuid.New()
		t.Slug = tournament.Slug(input.Name, input.Division, season, t.ID)

		err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
			if err := s.store.CreateTournament(ctx, tx, t); err != nil {
				return err
			}
			return s.admins.CreateAdmin(ctx, tx, &tournament.Admin{
				TournamentID: t.ID,
				UserID:       userID,
				CreatedAt:    now,
			})
		})
		if !db.IsUniqueViolation(err) {
			break
		}
		log.Ctx(ctx).Warn().Str("slug", t.Slug).Msg("Tournament slug collision, retrying with a new id")
	}
	if err != nil {
		return nil, storeError(ctx, "Error creating tournament", err)
	}

	log.Ctx(ctx).Info().Str("tournament_id", t.ID.String()).Str("slug", t.Slug).Msg("Tournament created")
	return &UpsertResult{Slug: t.Slug}, nil
}

// excludedUpdateColumns are never written by an update, whatever the
// payload holds.
var excludedUpdateColumns = []string{"id", "slug", "approved", "created_by", "created_at"}

func (s *TournamentService) updateTournament(ctx context.Context, userID, id uuid.UUID, input validate.TournamentInput) (*UpsertResult, error) {
	isAdmin, err := s.admins.IsAdmin(ctx, id, userID)
	if err != nil {
		return nil, storeError(ctx, "Error checking tournament access", err)
	}
	if !isAdmin {
		return nil, apperr.NotFoundf("%s", tournamentNotFound)
	}

	columns := casing.ToSnake(updateRecord(input))
	for _, col := range excludedUpdateColumns {
		delete(columns, col)
	}

	if err := s.store.UpdateTournament(ctx, id, columns, s.now.utc()); err != nil {
		return nil, storeError(ctx, "Error updating tournament", err)
	}
	return &UpsertResult{}, nil
}

// updateRecord is the camelCase view of the mutable tournament attributes.
func updateRecord(input validate.TournamentInput) map[string]any {
	return map[string]any{
		"name":              input.Name,
		"imageUrl":          utils.StringOrNil(input.ImageURL),
		"websiteUrl":        utils.StringOrNil(input.WebsiteURL),
		"location":          input.Location,
		"division":          input.Division,
		"startDate":         input.StartDate,
		"endDate":           input.EndDate,
		"applyDeadline":     input.ApplyDeadline.UTC(),
		"closedEarly":       input.ClosedEarly,
		"applicationFields": tournament.ApplicationFields(input.ApplicationFields),
	}
}

// GetTournamentsManagedByUser lists every tournament the caller administers
// with its submitted application count.
func (s *TournamentService) GetTournamentsManagedByUser(ctx context.Context) ([]tournament.Managed, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	managed, err := s.store.GetTournamentsManagedByUser(ctx, claims.Sub)
	if err != nil {
		return nil, storeError(ctx, "Error retrieving tournaments", err)
	}
	return managed, nil
}

type ApplicationView struct {
	UserID      uuid.UUID             `json:"userId"`
	Email       string                `json:"email"`
	Name        string                `json:"name"`
	Education   string                `json:"education"`
	Bio         string                `json:"bio"`
	Experience  string                `json:"experience"`
	Preferences volunteer.Preferences `json:"preferences"`
	Responses   volunteer.Responses   `json:"responses"`
	SubmittedAt time.Time             `json:"submittedAt"`
}

type TournamentManagement struct {
	Tournament   *tournament.Tournament `json:"tournament"`
	AdminEmails  []string               `json:"adminEmails"`
	InviteID     uuid.UUID              `json:"inviteId"`
	Applications []ApplicationView      `json:"applications"`
}

// GetTournamentManagement is the admin view of one tournament: its details,
// fellow admins, the invite for adding more, and the oldest submissions.
func (s *TournamentService) GetTournamentManagement(ctx context.Context, slug string) (*TournamentManagement, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.requireAdmin(ctx, slug, claims.Sub)
	if err != nil {
		return nil, err
	}

	var (
		emails      []string
		invite      *tournament.Invite
		submissions []volunteer.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emails, err = s.admins.GetAdminEmails(gctx, t.ID)
		return err
	})
	g.Go(func() error {
		var err error
		invite, err = s.standingInvite(gctx, t.ID, claims.Sub)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = s.apps.ListSubmissions(gctx, t.ID, managementApplicationLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(ctx, "Error retrieving tournament management data", err)
	}

	views := make([]ApplicationView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, ApplicationView{
			UserID:      sub.UserID,
			Email:       utils.OrDefault(sub.Email, unknownValue),
			Name:        utils.OrDefault(sub.Name, unknownValue),
			Education:   utils.OrDefault(sub.Education, unknownValue),
			Bio:         utils.OrDefault(sub.Bio, unknownValue),
			Experience:  utils.OrDefault(sub.Experience, unknownValue),
			Preferences: sub.Preferences,
			Responses:   sub.Responses,
			SubmittedAt: sub.UpdatedAt,
		})
	}

	return &TournamentManagement{
		Tournament:   t,
		AdminEmails:  emails,
		InviteID:     invite.ID,
		Applications: views,
	}, nil
}

// standingInvite returns the tournament's invite, creating it on first use.
func (s *TournamentService) standingInvite(ctx context.Context, tournamentID, userID uuid.UUID) (*tournament.Invite, error) {
	invite, err := s.admins.GetInviteForTournament(ctx, tournamentID)
	if err == nil {
		return invite, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = s.admins.CreateInvite(ctx, &tournament.Invite{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		CreatedBy:    userID,
		CreatedAt:    s.now.utc(),
	})
	if err != nil {
		return nil, err
	}
	// Another admin may have won the race; read back whichever row exists.
	return s.admins.GetInviteForTournament(ctx, tournamentID)
}

// requireAdmin resolves slug and confirms the user administers it. Both a
// missing tournament and a missing grant read as NOT_FOUND.
func (s *TournamentService) requireAdmin(ctx context.Context, slug string, userID uuid.UUID) (*tournament.Tournament, error) {
	t, err := s.store.GetTournamentBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError(ctx, tournamentNotFound, "Error retrieving tournament", err)
	}

	isAdmin, err := s.admins.IsAdmin(ctx, t.ID, userID)
	if err != nil {
		return nil, storeError(ctx, "Error checking tournament access", err)
	}
	if !isAdmin {
		return nil, apperr.NotFoundf("%s", tournamentNotFound)
	}
	return t, nil
}
