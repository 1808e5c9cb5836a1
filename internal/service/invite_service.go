package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/db"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/tournament"
)

// InviteService turns a tournament's standing invite link into admin
// grants for whoever follows it.
type InviteService struct {
	db     *sqlx.DB
	admins *store.AdminStore
	now    clock
}

func NewInviteService(db *sqlx.DB, admins *store.AdminStore) *InviteService {
	return &InviteService{db: db, admins: admins, now: time.Now}
}

func (s *InviteService) GetInvite(ctx context.Context, inviteID uuid.UUID) (*tournament.InviteTarget, error) {
	if _, err := callerClaims(ctx); err != nil {
		return nil, err
	}

	target, err := s.admins.GetInviteTarget(ctx, inviteID)
	if err != nil {
		return nil, lookupError(ctx, "Invite not found", "Error retrieving invite", err)
	}
	return target, nil
}

type AcceptInviteResult struct {
	Slug string `json:"slug"`
}

// AcceptInvite grants the caller admin rights over the invite's tournament.
// Accepting twice is a no-op.
func (s *InviteService) AcceptInvite(ctx context.Context, inviteID uuid.UUID) (*AcceptInviteResult, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	target, err := s.admins.GetInviteTarget(ctx, inviteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.InvalidReference, "This invite link is no longer valid")
	}
	if err != nil {
		return nil, storeError(ctx, "Error retrieving invite", err)
	}

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.admins.CreateAdmin(ctx, tx, &tournament.Admin{
			TournamentID: target.TournamentID,
			UserID:       claims.Sub,
			CreatedAt:    s.now.utc(),
		})
	})
	if err != nil {
		return nil, storeError(ctx, "Error accepting invite", err)
	}

	log.Ctx(ctx).Info().Str("tournament_id", target.TournamentID.String()).Msg("Invite accepted")
	return &AcceptInviteResult{Slug: target.TournamentSlug}, nil
}
