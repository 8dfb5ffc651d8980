package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/campground/campground/cmd/campground/internal/session"
	"github.com/campground/campground/internal/api"
	"github.com/campground/campground/internal/logger"
)

type LoginCmd struct {
	Server  string        `help:"Campground server URL" default:"http://localhost:8080"`
	Token   string        `help:"API token" env:"CAMPGROUND_TOKEN"`
	Timeout time.Duration `help:"How long to wait for the server" default:"30s"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	sessions, err := session.NewStore("")
	if err != nil {
		return err
	}

	cfg := api.DefaultConfig()
	cfg.BaseURL = l.Server
	cfg.Token = l.Token
	client := api.New(cfg, log)

	fmt.Printf("Checking %s...\n", l.Server)
	if err := client.WaitReady(ctx, l.Timeout); err != nil {
		return err
	}

	if err := sessions.Save(&session.Session{
		ServerURL: l.Server,
		Token:     l.Token,
	}); err != nil {
		return err
	}

	fmt.Println("Session saved")
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	sessions, err := session.NewStore("")
	if err != nil {
		return err
	}

	if err := sessions.Clear(); err != nil {
		return err
	}

	fmt.Println("Session cleared")
	return nil
}

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	fmt.Printf("Server: %s\n", e.sess.ServerURL)
	if e.sess.ActiveOrgID != "" {
		fmt.Printf("Active organization: %s\n", e.sess.ActiveOrgID)
	}
	if e.sess.ActiveCompanyID != "" {
		fmt.Printf("Active company: %s\n", e.sess.ActiveCompanyID)
	}
	warnExpiredToken(e.sess)

	return nil
}
