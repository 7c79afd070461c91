package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// SessionFromContext returns the session stored by RequireSession or
// RequireAdmin.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}

// TokenFromRequest returns the bearer token of r, or "".
func TokenFromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// FromRequest resolves the session named by the Authorization header.
func (s *Service) FromRequest(r *http.Request) (*Session, error) {
	return s.Session(TokenFromRequest(r))
}

// RequireSession rejects requests without a live session with 401.
func (s *Service) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.FromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next(w, r.WithContext(WithSession(r.Context(), sess)))
	}
}

// RequireAdmin is RequireSession plus a 403 for non-admin sessions.
func (s *Service) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		if !sess.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
