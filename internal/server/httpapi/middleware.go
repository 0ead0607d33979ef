package httpapi

import (
	"net/http"
	"strings"
)

// bearerToken extracts the access token from an Authorization header. The
// "Bearer " prefix is matched case-insensitively, and a bare token without
// the prefix is accepted for backward compatibility.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Authenticator resolves the current user once per request: a bearer access
// token wins, the session cookie is the fallback, and anything invalid just
// leaves the request anonymous. Handlers decide whether anonymous is
// acceptable.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if token := bearerToken(r.Header.Get("Authorization")); token != "" {
			if user, err := s.users.UserFromAccessToken(ctx, token); err == nil {
				next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
				return
			}
		}

		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if user, err := s.users.SessionFromCookie(ctx, cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
