package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const currentUserKey ctxKey = "current_user"

func CurrentUser(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(currentUserKey).(*User)
	return u, ok
}

// RequireAuth verifies the bearer token and resolves the full user row into
// the request context, so downstream handlers see the caller's superuser and
// active flags without another lookup.
func RequireAuth(jwtSvc *JWT, users *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			uid, err := jwtSvc.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := users.GetByID(r.Context(), uid)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !u.IsActive {
				http.Error(w, "inactive user", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperuser layers the admin gate on top of RequireAuth.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		if !ok || !u.IsSuperuser {
			http.Error(w, "not enough permissions", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
