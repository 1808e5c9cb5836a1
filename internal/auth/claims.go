// Package auth carries the caller's identity through a request.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const claimsKey contextKey = "claims"

var ErrNoClaims = errors.New("no identity claims in context")

// Claims identify the caller: Sub is the user id.
type Claims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns ErrNoClaims for anonymous requests.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	c, ok := ctx.Value(claimsKey).(Claims)
	if !ok || c.Sub == uuid.Nil {
		return Claims{}, ErrNoClaims
	}
	return c, nil
}
