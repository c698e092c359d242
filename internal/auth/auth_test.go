package auth

import (
	"errors"
	"testing"
	"time"
)

func TestStatic_Check(t *testing.T) {
	s := Static{Username: "admin", Password: "s3cret"}

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "s3cret", true},
		{"admin", "wrong", false},
		{"root", "s3cret", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := s.Check(tt.user, tt.pass); got != tt.want {
			t.Errorf("Check(%q, %q) = %v, want %v", tt.user, tt.pass, got, tt.want)
		}
	}

	if (Static{Username: "admin"}).Check("admin", "") {
		t.Error("Check() accepted an empty configured password")
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	s := NewSessions(Static{Username: "admin", Password: "pw"}, time.Hour)
	s.now = func() time.Time { return now }

	if _, err := s.Login("admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login(bad) error = %v, want ErrInvalidCredentials", err)
	}

	sess, err := s.Login("admin", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got, ok := s.Lookup(sess.Token); !ok || got.User != "admin" {
		t.Errorf("Lookup() = %+v, %v", got, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := s.Lookup(sess.Token); ok {
		t.Error("Lookup() found an expired session")
	}

	now = now.Add(-2 * time.Hour)
	again, _ := s.Login("admin", "pw")
	s.Logout(again.Token)
	if _, ok := s.Lookup(again.Token); ok {
		t.Error("Lookup() found a logged out session")
	}
	if _, ok := s.Lookup(""); ok {
		t.Error("Lookup(\"\") = true")
	}
}
