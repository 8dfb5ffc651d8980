package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/campground/campground/cmd/campground/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login   commands.LoginCmd  `cmd:"" help:"Store server URL and token for later commands"`
		Logout  commands.LogoutCmd `cmd:"" help:"Forget the stored session"`
		Whoami  commands.WhoamiCmd `cmd:"" help:"Show the stored session"`
		Tree    commands.TreeCmd   `cmd:"" help:"Print the portfolio hierarchy"`
		Use     commands.UseCmd    `cmd:"" help:"Set the active organization or company"`
		Open    commands.OpenCmd   `cmd:"" help:"Resolve a deep link against the hierarchy"`
		Rename  commands.RenameCmd `cmd:"" help:"Relabel a hierarchy level for the active organization"`
		Watch   commands.WatchCmd  `cmd:"" help:"Poll a scan until it finishes"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
