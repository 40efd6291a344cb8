// Package session persists the backend bearer credential between runs and
// checks token expiry once, at load time. Everything past this boundary
// treats the credential as an opaque string the transport attaches.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no stored session")
	ErrSessionExpired = errors.New("session expired")
)

// CredentialProvider supplies the bearer credential attached to backend
// requests.
type CredentialProvider interface {
	Token() string
}

// Session is one stored login.
type Session struct {
	BearerToken string `json:"token"`
	Username    string `json:"username,omitempty"`
}

// Token implements CredentialProvider.
func (s Session) Token() string {
	return s.BearerToken
}

// Store reads and writes the session file under the platform data dir.
type Store struct {
	path string
}

// NewStore constructs a store for the given session file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the session to disk, creating the data dir as needed.
func (s *Store) Save(sess Session) error {
	if strings.TrimSpace(sess.BearerToken) == "" {
		return ErrNoSession
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	encoded, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, encoded, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the stored session and checks expiry. The token's registered
// claims are parsed without signature verification: the client never holds
// the backend's signing secret, it only needs the exp claim. A token that
// does not parse as a JWT is kept as an opaque credential and the backend
// stays the authority on its validity.
func (s *Store) Load(now time.Time) (Session, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(content, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if strings.TrimSpace(sess.BearerToken) == "" {
		return Session{}, ErrNoSession
	}

	if expired, known := tokenExpired(sess.BearerToken, now); known && expired {
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Clear removes the stored session.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// tokenExpired reports whether the token's exp claim has passed. The second
// return value is false when the token carries no usable expiry.
func tokenExpired(token string, now time.Time) (bool, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false, false
	}
	if claims.ExpiresAt == nil {
		return false, false
	}
	return !now.Before(claims.ExpiresAt.Time), true
}
