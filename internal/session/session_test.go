package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, id, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return s
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Authenticated() {
		t.Error("missing token file should mean unauthenticated")
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
}

func TestSetTokenAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tok := signedToken(t, "u1", "alice")
	if err := s.SetToken(tok); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if !s.Authenticated() {
		t.Error("session should be authenticated after SetToken")
	}

	// A fresh load must see the persisted token
	s2, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s2.Token() != tok {
		t.Errorf("reloaded token = %q, want %q", s2.Token(), tok)
	}
}

func TestSetToken_RejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, _ := Load(path)

	if err := s.SetToken("   "); err == nil {
		t.Error("SetToken() should reject empty tokens")
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, _ := Load(path)

	if err := s.SetToken(signedToken(t, "u1", "alice")); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if s.Authenticated() {
		t.Error("session should be unauthenticated after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be removed after Clear")
	}

	// Clearing twice is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, _ := Load(path)
	if err := s.SetToken(signedToken(t, "64f9c2a4", "bob")); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	id, ok := s.Identity()
	if !ok {
		t.Fatal("Identity() should decode a well-formed token")
	}
	if id.UserID != "64f9c2a4" {
		t.Errorf("UserID = %q, want 64f9c2a4", id.UserID)
	}
	if id.Username != "bob" {
		t.Errorf("Username = %q, want bob", id.Username)
	}

	if s.UserID() != "64f9c2a4" || s.Username() != "bob" {
		t.Error("UserID()/Username() accessors disagree with Identity()")
	}
}

func TestIdentity_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, _ := Load(path)
	if err := s.SetToken("not-a-jwt"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	// Still authenticated: presence of the token is the only signal.
	if !s.Authenticated() {
		t.Error("opaque tokens still count as authenticated")
	}
	if _, ok := s.Identity(); ok {
		t.Error("Identity() should fail on undecodable tokens")
	}
	if s.UserID() != "" || s.Username() != "" {
		t.Error("accessors should return empty strings on undecodable tokens")
	}
}
