package middleware

import (
	"context"
	"net/http"
	"strings"

	"kitaguard/internal/domain/auth"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Auth resolves the bearer token into an ActorContext. Invalid or
// missing tokens pass through anonymously; route guards decide access.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := auth.ParseRole(claims.Role)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, auth.ActorContext{
				UserID:        claims.UserID,
				Role:          role,
				InstitutionID: claims.InstitutionID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (auth.ActorContext, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(auth.ActorContext)
	return actor, ok
}
