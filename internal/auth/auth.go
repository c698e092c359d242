// Package auth handles the admin login: credential checks and in-memory
// sessions. There is a single admin account configured by environment.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by Sessions.Login on a failed check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Checker decides whether a username and password may sign in.
type Checker interface {
	Check(username, password string) bool
}

// Static accepts exactly one configured username and password.
type Static struct {
	Username string
	Password string
}

// Check compares both values in constant time. Both comparisons always run.
func (s Static) Check(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password))
	return u&p == 1 && s.Password != ""
}

// Session is one signed-in admin.
type Session struct {
	Token     string
	User      string
	ExpiresAt time.Time
}

// Sessions is an in-memory session table. Sessions do not survive restarts.
type Sessions struct {
	checker Checker
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewSessions creates a session table issuing sessions valid for ttl.
func NewSessions(checker Checker, ttl time.Duration) *Sessions {
	return &Sessions{
		checker:  checker,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// Login checks the credentials and starts a session.
func (s *Sessions) Login(username, password string) (Session, error) {
	if !s.checker.Check(username, password) {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.NewString(),
		User:      username,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[sess.Token] = sess
	return sess, nil
}

// Lookup returns the live session for token.
func (s *Sessions) Lookup(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Logout ends the session for token. Unknown tokens are ignored.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// TTL returns the session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

func (s *Sessions) pruneLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
