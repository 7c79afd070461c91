package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New(nil, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestLogin(t *testing.T) {
	s := newService(t)

	sess, err := s.Login("admin", "adminpass")
	if err != nil {
		t.Fatalf("Login(admin) error = %v", err)
	}
	if sess.Token == "" || sess.Username != "admin" || !sess.IsAdmin() {
		t.Errorf("Login(admin) = %+v", sess)
	}

	sess, err = s.Login("user", "userpass")
	if err != nil {
		t.Fatalf("Login(user) error = %v", err)
	}
	if sess.IsAdmin() {
		t.Error("user should not be admin")
	}

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"nobody", "adminpass"},
		{"", ""},
	} {
		if _, err := s.Login(tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) error = %v, want ErrInvalidCredentials", tc.user, tc.pass, err)
		}
	}
}

func TestNew_ConfiguredUsers(t *testing.T) {
	s, err := New([]Credentials{{Username: "clerk", Password: "pw", Role: "user"}}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Login("admin", "adminpass"); err == nil {
		t.Error("demo admin should not exist when users are configured")
	}
	if _, err := s.Login("clerk", "pw"); err != nil {
		t.Errorf("Login(clerk) error = %v", err)
	}

	if _, err := New([]Credentials{{Username: "x", Password: "y", Role: "root"}}, 0); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("New with bad role error = %v", err)
	}
}

func TestRegister(t *testing.T) {
	s := newService(t)

	sess, err := s.Register("clerk", "secret", " Admin ")
	if err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if sess.Role != RoleAdmin {
		t.Errorf("Role = %q", sess.Role)
	}
	if _, err := s.Session(sess.Token); err != nil {
		t.Errorf("registered session invalid: %v", err)
	}
	if _, err := s.Login("clerk", "secret"); err != nil {
		t.Errorf("Login after register error = %v", err)
	}

	if _, err := s.Register("clerk", "again", "user"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate Register error = %v", err)
	}
	if _, err := s.Register("other", "pw", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role Register error = %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newService(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess, err := s.Login("user", "userpass")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if _, err := s.Session(sess.Token); err != nil {
		t.Fatalf("Session error = %v", err)
	}

	now = now.Add(time.Hour)
	if _, err := s.Session(sess.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired Session error = %v", err)
	}

	sess, _ = s.Login("user", "userpass")
	if err := s.Logout(sess.Token); err != nil {
		t.Fatalf("Logout error = %v", err)
	}
	if _, err := s.Session(sess.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Session after logout error = %v", err)
	}
	if err := s.Logout(sess.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("second Logout error = %v", err)
	}
}

func TestConcurrentLogins(t *testing.T) {
	s := newService(t)
	var wg sync.WaitGroup
	tokens := make(chan string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := s.Login("user", "userpass")
			if err != nil {
				t.Errorf("Login error = %v", err)
				return
			}
			tokens <- sess.Token
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[string]bool{}
	for tok := range tokens {
		if seen[tok] {
			t.Errorf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":    "abc",
		"bearer  abc ":  "abc",
		"Basic abc":     "",
		"Bearer":        "",
		"":              "",
		"Token abc def": "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := TokenFromRequest(r); got != want {
			t.Errorf("TokenFromRequest(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	s := newService(t)
	admin, _ := s.Login("admin", "adminpass")
	user, _ := s.Login("user", "userpass")

	handler := func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			t.Error("session missing from context")
		}
		w.Write([]byte(sess.Username))
	}

	tests := []struct {
		name       string
		wrap       func(http.HandlerFunc) http.HandlerFunc
		token      string
		wantStatus int
		wantBody   string
	}{
		{"session without token", s.RequireSession, "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"session with bad token", s.RequireSession, "nope", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"session with user", s.RequireSession, user.Token, http.StatusOK, "user"},
		{"admin without token", s.RequireAdmin, "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"admin with user", s.RequireAdmin, user.Token, http.StatusForbidden, `{"error":"Admin access required"}`},
		{"admin with admin", s.RequireAdmin, admin.Token, http.StatusOK, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			tt.wrap(handler)(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := trimNewline(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
