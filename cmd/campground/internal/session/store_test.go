package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Run("save then load", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		err = store.Save(&Session{
			ServerURL:   "https://campground.example.com",
			Token:       "tok",
			ActiveOrgID: "org1",
		})
		require.NoError(t, err)

		sess, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "https://campground.example.com", sess.ServerURL)
		require.Equal(t, "org1", sess.ActiveOrgID)
		require.False(t, sess.CreatedAt.IsZero())
	})

	t.Run("load without a session", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("save leaves no temp file behind", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Save(&Session{ServerURL: "http://x"}))

		_, err = os.Stat(filepath.Join(dir, "session.json.tmp"))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("update applies in place", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Save(&Session{ServerURL: "http://x"}))

		err = store.Update(func(s *Session) {
			s.ActiveCompanyID = "c1"
		})
		require.NoError(t, err)

		sess, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "c1", sess.ActiveCompanyID)
		require.Equal(t, "http://x", sess.ServerURL)
	})

	t.Run("clear removes the session and is idempotent", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Save(&Session{ServerURL: "http://x"}))

		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoSession)
	})
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	signed := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user",
			"exp": exp.Unix(),
		})
		s, err := token.SignedString([]byte("irrelevant"))
		require.NoError(t, err)
		return s
	}

	t.Run("expired jwt", func(t *testing.T) {
		sess := &Session{Token: signed(now.Add(-time.Hour))}
		require.True(t, sess.TokenExpired(now))
	})

	t.Run("valid jwt", func(t *testing.T) {
		sess := &Session{Token: signed(now.Add(time.Hour))}
		require.False(t, sess.TokenExpired(now))
	})

	t.Run("opaque token never reports expired", func(t *testing.T) {
		sess := &Session{Token: "not-a-jwt"}
		require.False(t, sess.TokenExpired(now))
	})

	t.Run("empty token", func(t *testing.T) {
		sess := &Session{}
		require.False(t, sess.TokenExpired(now))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields zero config", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		cfg, err := store.LoadConfig()
		require.NoError(t, err)
		require.Empty(t, cfg.ServerURL)
		require.Zero(t, cfg.PollInterval)
	})

	t.Run("reads values", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)

		err = os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_url: http://x\npoll_interval: 2s\n"), 0600)
		require.NoError(t, err)

		cfg, err := store.LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "http://x", cfg.ServerURL)
		require.Equal(t, 2*time.Second, time.Duration(cfg.PollInterval))
	})
}
