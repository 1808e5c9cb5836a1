package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/decanter-app/decanter/internal/tournament"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// UpdatableColumns are the tournament columns an admin may change after
// creation.
var UpdatableColumns = map[string]struct{}{
	"name":               {},
	"image_url":          {},
	"website_url":        {},
	"location":           {},
	"division":           {},
	"start_date":         {},
	"end_date":           {},
	"apply_deadline":     {},
	"closed_early":       {},
	"application_fields": {},
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, slug, name, image_url, website_url, location, division,
			start_date, end_date, apply_deadline, closed_early, application_fields, approved,
			created_by, created_at, updated_at)
		VALUES (:id, :slug, :name, :image_url, :website_url, :location, :division,
			:start_date, :end_date, :apply_deadline, :closed_early, :application_fields, :approved,
			:created_by, :created_at, :updated_at)
	`
	managedTournamentsQuery = `
		SELECT t.*,
			(SELECT COUNT(*) FROM tournament_applications a
				WHERE a.tournament_id = t.id AND a.submitted = ?) AS application_count
		FROM tournaments t
		JOIN tournament_admins ta ON ta.tournament_id = t.id
		WHERE ta.user_id = ?
		ORDER BY t.start_date DESC, t.created_at DESC
	`
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, t)
	return err
}

// UpdateTournament writes the given columns of one tournament. Column names
// outside UpdatableColumns are rejected.
func (s *TournamentStore) UpdateTournament(ctx context.Context, id uuid.UUID, values map[string]any, updatedAt time.Time) error {
	columns := make([]string, 0, len(values))
	for col := range values {
		if _, ok := UpdatableColumns[col]; !ok {
			return fmt.Errorf("column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+2)
	for _, col := range columns {
		sets = append(sets, col+" = ?")
		args = append(args, values[col])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt, id)

	query := "UPDATE tournaments SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	var t tournament.Tournament
	err := s.db.GetContext(ctx, &t, s.db.Rebind("SELECT * FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) GetTournamentBySlug(ctx context.Context, slug string) (*tournament.Tournament, error) {
	var t tournament.Tournament
	err := s.db.GetContext(ctx, &t, s.db.Rebind("SELECT * FROM tournaments WHERE slug = ?"), slug)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) GetTournamentIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.GetContext(ctx, &id, s.db.Rebind("SELECT id FROM tournaments WHERE slug = ?"), slug)
	return id, err
}

// GetTournamentsManagedByUser lists the tournaments the user administers with
// their submitted application counts, latest start date first.
func (s *TournamentStore) GetTournamentsManagedByUser(ctx context.Context, userID uuid.UUID) ([]tournament.Managed, error) {
	tournaments := []tournament.Managed{}
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind(managedTournamentsQuery), true, userID)
	return tournaments, err
}

// ListApproved returns the tournaments visible to volunteers that match the
// filter, ordered by start date.
func (s *TournamentStore) ListApproved(ctx context.Context, f tournament.Filter) ([]tournament.Tournament, error) {
	where := []string{"approved = ?"}
	args := []any{true}
	if f.Division != "" {
		where = append(where, "division = ?")
		args = append(args, f.Division)
	}
	if f.Location != "" {
		where = append(where, "location = ?")
		args = append(args, f.Location)
	}
	if !f.EndsOnOrAfter.IsZero() {
		where = append(where, "end_date >= ?")
		args = append(args, f.EndsOnOrAfter)
	}

	query := "SELECT * FROM tournaments WHERE " + strings.Join(where, " AND ") + " ORDER BY start_date ASC, name ASC"
	tournaments := []tournament.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind(query), args...)
	return tournaments, err
}

// SetApproved toggles volunteer visibility. Only operators call this; admins
// cannot approve their own tournaments.
func (s *TournamentStore) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE tournaments SET approved = ? WHERE id = ?"), approved, id)
	return err
}
