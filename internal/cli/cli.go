// Package cli provides the command-line interface for skillhub.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "skillhub",
		Usage:   "Keep one hub of agent skills projected into every AI tool",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file (default $SKILLHUB_HOME/config.yaml)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			if err := configureColors(cmd, cfg.Output.Color); err != nil {
				return ctx, err
			}
			if err := configureLogging(cmd, cfg.Log.Level, cfg.Log.JSON); err != nil {
				return ctx, err
			}
			return withConfig(ctx, cfg), nil
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
			toolsCommand(),
			installCommand(),
			removeCommand(),
			listCommand(),
			syncCommand(),
			unsyncCommand(),
			planCommand(),
			driftCommand(),
			scanCommand(),
			collectCommand(),
			distributeCommand(),
			fullSyncCommand(),
			statusCommand(),
			watchCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors applies --no-color, then the configured color mode.
func configureColors(cmd *cli.Command, mode string) error {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return nil
	}
	return ui.SetColorMode(mode)
}

// configureLogging sets up the logger from CLI flags, falling back to the
// configured level.
func configureLogging(cmd *cli.Command, level string, json bool) error {
	opts := logging.DefaultOptions()
	opts.JSON = json || cmd.Bool("log-json")

	switch {
	case cmd.Bool("debug"):
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case cmd.Bool("verbose"):
		opts.Level = slog.LevelInfo
	default:
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		opts.Level = lvl
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))
	return nil
}
