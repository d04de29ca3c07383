package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token for the current user, persisted as a single
// string in a file. Absence of the file means unauthenticated. The session is
// created explicitly and injected into the API client and ownership helpers
// rather than looked up ambiently.
type Session struct {
	path  string
	token string
}

// Identity is the advisory user info decoded from the token payload.
// It is used for display and ownership comparison only - the backend remains
// authoritative for every actual permission check.
type Identity struct {
	UserID   string
	Username string
}

// claims mirrors the fields the backend embeds in its tokens.
type claims struct {
	jwt.RegisteredClaims
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Load reads the session token from the given file path.
// A missing file is not an error; it yields an unauthenticated session.
func Load(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the raw bearer token, or "" when unauthenticated.
func (s *Session) Token() string {
	return s.token
}

// Authenticated reports whether a token is present. Presence of the token is
// the sole authentication signal the UI layer checks; the token is not
// verified client-side.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// SetToken stores a new token and persists it.
func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("refusing to store an empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = token
	return nil
}

// Clear removes the persisted token (logout).
func (s *Session) Clear() error {
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Identity decodes the token payload locally without verifying the signature.
// This decoding is advisory only: it drives what UI to show (display name,
// edit/delete affordances) and must never be trusted for authorization.
func (s *Session) Identity() (Identity, bool) {
	if s.token == "" {
		return Identity{}, false
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.token, &c); err != nil {
		return Identity{}, false
	}

	id := Identity{UserID: c.ID, Username: c.Username}
	if id.UserID == "" && id.Username == "" {
		return Identity{}, false
	}
	return id, true
}

// UserID returns the advisory user id, or "" when unknown.
func (s *Session) UserID() string {
	id, ok := s.Identity()
	if !ok {
		return ""
	}
	return id.UserID
}

// Username returns the advisory display name, or "" when unknown.
func (s *Session) Username() string {
	id, ok := s.Identity()
	if !ok {
		return ""
	}
	return id.Username
}
