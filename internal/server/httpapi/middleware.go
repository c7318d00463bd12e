package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/foundloss/internal/httputil"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// requireUser authenticates the request via the Authorization header and puts
// the resolved account into the request context. Every failure mode (missing
// header, malformed or expired token, unknown subject) produces the same
// response so callers cannot tell which check rejected them.
func (s *HTTPServer) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httputil.WriteUnauthorized(w, "Invalid token")
			return
		}

		userID, err := s.users.GetUserIDFromToken(token)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid token")
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := s.allowOrigin(origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) allowOrigin(origin string) string {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}
