package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"cadence/internal/auth"
	"cadence/internal/cli"
	"cadence/internal/dates"
	"cadence/internal/habit"
	"cadence/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/cadence/cadence.db"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize cadence storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Register cli.RegisterCmd `cmd:"" help:"Create a local account."`
	Login    cli.LoginCmd    `cmd:"" help:"Log in."`
	Logout   cli.LogoutCmd   `cmd:"" help:"Log out."`
	Whoami   cli.WhoamiCmd   `cmd:"" help:"Show the logged-in user."`
	Profile  cli.ProfileCmd  `cmd:"" help:"Edit the logged-in user's profile."`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	Edit     cli.EditCmd     `cmd:"" help:"Edit an existing habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Done     cli.DoneCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	List     cli.ListCmd     `cmd:"" help:"List habits."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's progress."`
	Week     cli.WeekCmd     `cmd:"" help:"Show the trailing 7-day progress."`
	Backup   cli.BackupCmd   `cmd:"" help:"Create, list, or restore snapshot backups."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cadence"),
		kong.Description("Local-first habit tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage backend based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	repo := habit.NewRepository(store, dates.System())
	appCtx := &cli.Context{
		Config: CLI.Config,
		Store:  store,
		Habits: repo,
		Auth:   auth.New(store),
	}

	err := ctx.Run(appCtx)

	// Drain queued snapshot writes before the process exits.
	repo.Close()
	if cerr := store.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
