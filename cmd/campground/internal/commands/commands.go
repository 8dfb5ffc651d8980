package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campground/campground/cmd/campground/internal/session"
	"github.com/campground/campground/internal/api"
	"github.com/campground/campground/internal/hierarchy"
	"github.com/campground/campground/internal/logger"
)

type Globals struct {
	Debug   bool
	Version string
}

// env bundles everything a command needs: the saved session, an API client
// for its server, and a hierarchy store backed by that client.
type env struct {
	sessions *session.Store
	sess     *session.Session
	client   *api.Client
	tree     *hierarchy.Store
	logger   zerolog.Logger
	interval time.Duration
}

// setup builds the command environment from the stored session and config
// file. Commands other than login refuse to run without a session.
func setup(globals *Globals) (*env, error) {
	log := logger.Setup(globals.Debug)

	sessions, err := session.NewStore("")
	if err != nil {
		return nil, err
	}

	sess, err := sessions.Load()
	if err != nil {
		return nil, err
	}

	cfg, err := sessions.LoadConfig()
	if err != nil {
		return nil, err
	}

	clientCfg := api.DefaultConfig()
	clientCfg.BaseURL = sess.ServerURL
	clientCfg.Token = sess.Token
	clientCfg.Debug = globals.Debug
	clientCfg.CacheDir = cfg.CacheDir
	if cfg.Timeout > 0 {
		clientCfg.Timeout = time.Duration(cfg.Timeout)
	}

	client := api.New(clientCfg, log)

	return &env{
		sessions: sessions,
		sess:     sess,
		client:   client,
		tree:     hierarchy.NewStore(client, log),
		logger:   log,
		interval: time.Duration(cfg.PollInterval),
	}, nil
}

// loadTree fetches the hierarchy and restores the persisted selection, or
// derives the default one.
func (e *env) loadTree(ctx context.Context) error {
	if err := e.tree.Load(ctx); err != nil {
		return err
	}

	if e.sess.ActiveOrgID != "" {
		if chain, ok := e.tree.Ancestry(e.sess.ActiveOrgID); ok && chain.Company == nil {
			e.tree.SetActiveOrganization(chain.Organization)
		}
	}
	if e.sess.ActiveCompanyID != "" {
		if chain, ok := e.tree.Ancestry(e.sess.ActiveCompanyID); ok && chain.Company != nil && chain.Team == nil {
			e.tree.SetActiveCompany(chain.Company)
		}
	}
	e.tree.SetInitialActive()

	return nil
}

// saveSelection persists the current active selection for later commands.
func (e *env) saveSelection() error {
	return e.sessions.Update(func(s *session.Session) {
		s.ActiveOrgID = ""
		s.ActiveCompanyID = ""
		if org := e.tree.ActiveOrganization(); org != nil {
			s.ActiveOrgID = org.ID
		}
		if company := e.tree.ActiveCompany(); company != nil {
			s.ActiveCompanyID = company.ID
		}
	})
}

func statusBadge(status string) string {
	switch status {
	case api.StatusCompleted:
		return "✅ COMPLETED"
	case api.StatusFailed:
		return "❌ FAILED"
	case api.StatusCancelled:
		return "🚫 CANCELLED"
	case api.StatusRunning:
		return "🏃 RUNNING"
	case api.StatusQueued, api.StatusPending:
		return "⏳ " + status
	default:
		return status
	}
}

func warnExpiredToken(sess *session.Session) {
	if sess.TokenExpired(time.Now()) {
		fmt.Println("Warning: stored token has expired, run login again")
	}
}
