package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/auth"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/testutil"
)

func claimsHandler(t *testing.T, got *auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ClaimsFromContext(r.Context())
		if err == nil {
			*got = claims
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestLoadIdentityBearer(t *testing.T) {
	db := testutil.NewTestDB(t)
	tokens := auth.NewTokens("test-secret", time.Hour)
	sessions := scs.New()

	want := auth.Claims{Sub: uuid.New(), Email: "ada@example.com"}
	raw, _, err := tokens.Issue(want)
	require.NoError(t, err)

	var got auth.Claims
	handler := sessions.LoadAndSave(LoadIdentity(sessions, store.NewUserStore(db), tokens)(claimsHandler(t, &got)))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, want, got)
}

func TestLoadIdentityRejectsBadToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	sessions := scs.New()
	var got auth.Claims
	handler := sessions.LoadAndSave(LoadIdentity(sessions, store.NewUserStore(db), auth.NewTokens("test-secret", time.Hour))(claimsHandler(t, &got)))

	for _, header := range []string{"Bearer nope", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "AUTH_ERROR")
	}
}

func TestLoadIdentityAnonymous(t *testing.T) {
	db := testutil.NewTestDB(t)
	sessions := scs.New()
	var got auth.Claims
	handler := sessions.LoadAndSave(LoadIdentity(sessions, store.NewUserStore(db), auth.NewTokens("test-secret", time.Hour))(claimsHandler(t, &got)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tournaments", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uuid.Nil, got.Sub)
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	RequireAPIAuth(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	rec = httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(auth.WithClaims(context.Background(), auth.Claims{Sub: uuid.New()}))
	rec = httptest.NewRecorder()
	RequireAPIAuth(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, 2)
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := limiter.Limit(ok)

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/applications", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
	rec := call("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":"RATE_LIMITED"`)

	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
}
