package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromContext(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoClaims)

	want := Claims{Sub: uuid.New(), Email: "ada@example.com"}
	got, err := ClaimsFromContext(WithClaims(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ClaimsFromContext(WithClaims(context.Background(), Claims{Email: "x@example.com"}))
	assert.ErrorIs(t, err, ErrNoClaims)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	want := Claims{Sub: uuid.New(), Email: "ada@example.com"}

	raw, expires, err := tokens.Issue(want)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	got, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	raw, _, err := tokens.Issue(Claims{Sub: uuid.New()})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		tokens *Tokens
		raw    string
	}{
		{name: "wrong secret", tokens: NewTokens("other-secret", time.Hour), raw: raw},
		{name: "garbage", tokens: tokens, raw: "not.a.token"},
		{
			name: "expired",
			tokens: &Tokens{
				secret:   []byte("test-secret"),
				lifetime: time.Hour,
				now:      func() time.Time { return time.Now().Add(2 * time.Hour) },
			},
			raw: raw,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tokens.Parse(tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
