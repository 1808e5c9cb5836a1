package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/auth"
)

const tournamentNotFound = "Tournament not found"

// callerClaims is the identity check every operation starts with.
func callerClaims(ctx context.Context) (auth.Claims, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return auth.Claims{}, apperr.Unauthenticated()
	}
	return claims, nil
}

// storeError logs a store failure and hides it behind SERVER_ERROR.
func storeError(ctx context.Context, msg string, err error) error {
	log.Ctx(ctx).Error().Err(err).Msg(msg)
	return apperr.Server(msg)
}

// lookupError maps a missing row to NOT_FOUND and anything else to
// SERVER_ERROR.
func lookupError(ctx context.Context, notFound, msg string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf("%s", notFound)
	}
	return storeError(ctx, msg, err)
}

type clock func() time.Time

func (c clock) utc() time.Time {
	return c().UTC()
}
