package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/decanter-app/decanter/internal/tournament"
)

// AdminStore holds admin grants and the invites that create them.
type AdminStore struct {
	db *sqlx.DB
}

func NewAdminStore(db *sqlx.DB) *AdminStore {
	return &AdminStore{db: db}
}

const (
	createAdminQuery = `
		INSERT INTO tournament_admins (tournament_id, user_id, created_at)
		VALUES (:tournament_id, :user_id, :created_at)
		ON CONFLICT (tournament_id, user_id) DO NOTHING
	`
	createInviteQuery = `
		INSERT INTO tournament_admin_invites (id, tournament_id, created_by, created_at)
		VALUES (:id, :tournament_id, :created_by, :created_at)
		ON CONFLICT (tournament_id) DO NOTHING
	`
	adminEmailsQuery = `
		SELECT u.email FROM tournament_admins ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.tournament_id = ?
		ORDER BY ta.created_at ASC, u.email ASC
	`
	inviteTargetQuery = `
		SELECT i.id AS invite_id, t.id AS tournament_id, t.name AS tournament_name, t.slug AS tournament_slug
		FROM tournament_admin_invites i
		JOIN tournaments t ON t.id = i.tournament_id
		WHERE i.id = ?
	`
)

// CreateAdmin grants admin rights. Granting an existing admin is a no-op.
func (s *AdminStore) CreateAdmin(ctx context.Context, tx *sqlx.Tx, admin *tournament.Admin) error {
	_, err := tx.NamedExecContext(ctx, createAdminQuery, admin)
	return err
}

func (s *AdminStore) IsAdmin(ctx context.Context, tournamentID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, s.db.Rebind(`
		SELECT EXISTS (SELECT 1 FROM tournament_admins WHERE tournament_id = ? AND user_id = ?)
	`), tournamentID, userID)
	return exists, err
}

func (s *AdminStore) GetAdminEmails(ctx context.Context, tournamentID uuid.UUID) ([]string, error) {
	emails := []string{}
	err := s.db.SelectContext(ctx, &emails, s.db.Rebind(adminEmailsQuery), tournamentID)
	return emails, err
}

func (s *AdminStore) GetInviteForTournament(ctx context.Context, tournamentID uuid.UUID) (*tournament.Invite, error) {
	var invite tournament.Invite
	err := s.db.GetContext(ctx, &invite, s.db.Rebind("SELECT * FROM tournament_admin_invites WHERE tournament_id = ?"), tournamentID)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// CreateInvite stores the invite unless the tournament already has one.
func (s *AdminStore) CreateInvite(ctx context.Context, invite *tournament.Invite) error {
	_, err := s.db.NamedExecContext(ctx, createInviteQuery, invite)
	return err
}

func (s *AdminStore) GetInviteTarget(ctx context.Context, inviteID uuid.UUID) (*tournament.InviteTarget, error) {
	var target tournament.InviteTarget
	err := s.db.GetContext(ctx, &target, s.db.Rebind(inviteTargetQuery), inviteID)
	if err != nil {
		return nil, err
	}
	return &target, nil
}
