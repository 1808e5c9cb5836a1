package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/decanter-app/decanter/internal/volunteer"
)

type ApplicationStore struct {
	db *sqlx.DB
}

func NewApplicationStore(db *sqlx.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const (
	upsertApplicationQuery = `
		INSERT INTO tournament_applications (tournament_id, user_id, preferences, responses, submitted, created_at, updated_at)
		VALUES (:tournament_id, :user_id, :preferences, :responses, :submitted, :updated_at, :updated_at)
		ON CONFLICT (tournament_id, user_id) DO UPDATE SET
			preferences = excluded.preferences,
			responses = excluded.responses,
			submitted = excluded.submitted,
			updated_at = excluded.updated_at
	`
	submissionsQuery = `
		SELECT a.tournament_id, a.user_id, a.preferences, a.responses, a.submitted, a.updated_at,
			u.email, p.name, p.education, p.bio, p.experience
		FROM tournament_applications a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN volunteer_profiles p ON p.user_id = a.user_id
		WHERE a.tournament_id = ? AND a.submitted = ?
		ORDER BY a.updated_at ASC, a.user_id ASC
	`
	userApplicationsQuery = `
		SELECT a.tournament_id, a.user_id, a.preferences, a.responses, a.submitted, a.updated_at,
			t.name AS tournament_name, t.slug AS tournament_slug, t.start_date, t.end_date,
			t.apply_deadline, t.closed_early
		FROM tournament_applications a
		JOIN tournaments t ON t.id = a.tournament_id
		WHERE a.user_id = ?
		ORDER BY a.updated_at DESC
	`
)

func (s *ApplicationStore) GetApplication(ctx context.Context, tournamentID, userID uuid.UUID) (*volunteer.Application, error) {
	var app volunteer.Application
	err := s.db.GetContext(ctx, &app, s.db.Rebind(`
		SELECT tournament_id, user_id, preferences, responses, submitted, updated_at
		FROM tournament_applications WHERE tournament_id = ? AND user_id = ?
	`), tournamentID, userID)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpsertApplication writes the application keyed by (tournament, user).
func (s *ApplicationStore) UpsertApplication(ctx context.Context, app *volunteer.Application) error {
	_, err := s.db.NamedExecContext(ctx, upsertApplicationQuery, app)
	return err
}

// ListSubmissions returns submitted applications oldest first. A limit of
// zero returns all of them.
func (s *ApplicationStore) ListSubmissions(ctx context.Context, tournamentID uuid.UUID, limit int) ([]volunteer.Submission, error) {
	query := submissionsQuery
	args := []any{tournamentID, true}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	submissions := []volunteer.Submission{}
	err := s.db.SelectContext(ctx, &submissions, s.db.Rebind(query), args...)
	return submissions, err
}

func (s *ApplicationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]volunteer.UserApplication, error) {
	apps := []volunteer.UserApplication{}
	err := s.db.SelectContext(ctx, &apps, s.db.Rebind(userApplicationsQuery), userID)
	return apps, err
}
