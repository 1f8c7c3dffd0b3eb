package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/roomsync/roomsync-backend/internal/repository"
)

// Actor is the authenticated user an operation runs on behalf of.
type Actor struct {
	ID    string
	Email string
}

type actorKey struct{}

// ActorFromContext returns the actor stored by Middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Exposed for handler
// tests.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Middleware validates the bearer token, mirrors the user into the store
// (first-sign-in upsert) and stashes the actor in the request context.
func Middleware(tokens *TokenManager, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			if _, err := users.Upsert(r.Context(), claims.Subject, claims.Email); err != nil {
				log.Error().Err(err).Str("user", claims.Subject).Msg("upserting user")
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"failed to resolve user"}`))
				return
			}

			actor := Actor{ID: claims.Subject, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
