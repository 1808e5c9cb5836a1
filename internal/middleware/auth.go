package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/auth"
	"github.com/decanter-app/decanter/internal/config"
	"github.com/decanter-app/decanter/internal/httputil"
	"github.com/decanter-app/decanter/internal/store"
	users "github.com/decanter-app/decanter/internal/user"
)

// SessionUserKey is the session entry holding the signed in user's id.
const SessionUserKey = "userID"

func InitAuth(cfg *config.Config) {
	callback := func(provider string) string {
		return strings.TrimRight(cfg.App.BaseURL, "/") + "/auth/" + provider + "/callback"
	}

	var providers []goth.Provider
	if cfg.Auth.Discord.Key != "" {
		providers = append(providers, discord.New(cfg.Auth.Discord.Key, cfg.Auth.Discord.Secret, callback("discord"), discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.Auth.Google.Key != "" {
		providers = append(providers, google.New(cfg.Auth.Google.Key, cfg.Auth.Google.Secret, callback("google"), "email", "profile"))
	}
	if len(providers) == 0 {
		log.Warn().Msg("No OAuth providers configured; only bearer tokens will authenticate")
	}
	goth.UseProviders(providers...)
}

// LoadIdentity resolves the caller from a bearer token or the session
// cookie and stores the claims in the request context. Anonymous requests
// pass through untouched.
func LoadIdentity(sessionManager *scs.SessionManager, userStore *store.UserStore, tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get("Authorization"); header != "" {
				raw, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					httputil.WriteError(w, r, apperr.New(apperr.AuthError, "Invalid authorization header"))
					return
				}
				claims, err := tokens.Parse(raw)
				if err != nil {
					httputil.WriteError(w, r, apperr.New(apperr.AuthError, "Invalid or expired token"))
					return
				}
				next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
				return
			}

			userIDStr := sessionManager.GetString(ctx, SessionUserKey)
			if userIDStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(ctx, SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userStore.GetUser(ctx, userID)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("user_id", userIDStr).Msg("Failed to load session user")
				sessionManager.Remove(ctx, SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx = withClaims(ctx, auth.Claims{Sub: user.ID, Email: user.Email})
			// Add the user to context so that views can greet them
			ctx = context.WithValue(ctx, users.UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withClaims(ctx context.Context, claims auth.Claims) context.Context {
	logger := log.Ctx(ctx).With().Str("user_id", claims.Sub.String()).Logger()
	return logger.WithContext(auth.WithClaims(ctx, claims))
}

// RequireAuth redirects anonymous browser requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.ClaimsFromContext(r.Context()); err != nil {
			httputil.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIAuth answers anonymous API requests with UNAUTHORIZED.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.ClaimsFromContext(r.Context()); err != nil {
			httputil.WriteError(w, r, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
