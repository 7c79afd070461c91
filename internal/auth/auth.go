// Package auth keeps demo users and bearer-token sessions in memory.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultSessionTTL applies when New is given a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidRole        = errors.New("role must be 'admin' or 'user'")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
)

// Credentials seed a user account.
type Credentials struct {
	Username string
	Password string
	Role     string
}

// DefaultUsers are the demo accounts created when no users are configured.
func DefaultUsers() []Credentials {
	return []Credentials{
		{Username: "admin", Password: "adminpass", Role: RoleAdmin},
		{Username: "user", Password: "userpass", Role: RoleUser},
	}
}

// Session is an authenticated login.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type account struct {
	hash []byte
	role string
}

// Service stores accounts and sessions.
type Service struct {
	mu       sync.RWMutex
	users    map[string]account
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// New creates a Service seeded with users, or DefaultUsers when users is
// empty.
func New(users []Credentials, ttl time.Duration) (*Service, error) {
	if len(users) == 0 {
		users = DefaultUsers()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &Service{
		users:    make(map[string]account, len(users)),
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, u := range users {
		if err := s.addUser(u.Username, u.Password, u.Role); err != nil {
			return nil, fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
	}
	return s, nil
}

// SetTTL changes the lifetime of sessions created from now on.
func (s *Service) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
}

// Login checks credentials and opens a session.
func (s *Service) Login(username, password string) (*Session, error) {
	s.mu.RLock()
	acct, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		// Keep timing close to the wrong-password path.
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.newSession(username, acct.role), nil
}

// Register creates an account and logs it in.
func (s *Service) Register(username, password, role string) (*Session, error) {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if err := s.addUser(username, password, role); err != nil {
		return nil, err
	}
	return s.newSession(username, role), nil
}

// Session returns the live session for token.
func (s *Service) Session(token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnauthorized
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrUnauthorized
	}
	cp := *sess
	return &cp, nil
}

// Logout ends the session for token.
func (s *Service) Logout(token string) error {
	if _, err := s.Session(token); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *Service) addUser(username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	if role != RoleAdmin && role != RoleUser {
		return ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}
	s.users[username] = account{hash: hash, role: role}
	return nil
}

func (s *Service) newSession(username, role string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{
		Token:     uuid.NewString(),
		Username:  username,
		Role:      role,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	cp := *sess
	return &cp
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("formassist"), bcrypt.DefaultCost)
