package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrNoSession is returned when no session has been stored yet.
	ErrNoSession = errors.New("no session, run login first")
)

// Session is the persisted CLI context: which server to talk to, the bearer
// token for it, and the last active selection so commands keep context
// between invocations.
type Session struct {
	ServerURL       string    `json:"server_url"`
	Token           string    `json:"token,omitempty"`
	ActiveOrgID     string    `json:"active_org_id,omitempty"`
	ActiveCompanyID string    `json:"active_company_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TokenExpired reports whether the stored token is a JWT whose exp claim has
// passed. The token is parsed without verification: the server verifies
// signatures, the CLI only wants to warn before an inevitable 401. Opaque
// (non-JWT) tokens report false.
func (s *Session) TokenExpired(now time.Time) bool {
	if s.Token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Store manages session storage on the local filesystem.
type Store struct {
	baseDir string
}

// NewStore creates a session store. If baseDir is empty, uses ~/.campground/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".campground")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &Store{baseDir: baseDir}, nil
}

// Load reads the current session. Returns ErrNoSession when none exists.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &sess, nil
}

// Save writes the session atomically.
func (s *Store) Save(sess *Session) error {
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first, then atomic rename
	path := s.path()
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug().Str("server", sess.ServerURL).Msg("session saved")

	return nil
}

// Clear removes the stored session. Clearing a missing session is fine.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	log.Debug().Msg("session cleared")

	return nil
}

// Update loads, applies fn, and saves back in one step.
func (s *Store) Update(fn func(*Session)) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}

	fn(sess)

	return s.Save(sess)
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, "session.json")
}
