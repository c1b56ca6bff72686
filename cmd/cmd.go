// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// updateCommand runs one poll, diff and save cycle
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Fetch every leaderboard once and append new world records to the changelist",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Print per-level progress",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the run summary as JSON",
			},
		},
		Action: r.Update,
	}
}

// superviseCommand re-runs update forever
func superviseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "supervise",
		Usage: "Run update on a fixed period with backoff, timeouts and healthchecks reporting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "updater",
				Usage: "Updater binary to run (default: this executable)",
			},
		},
		Action: r.Supervise,
	}
}

// changelistCommand reads the stored changelist
func changelistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "changelist",
		Aliases: []string{"cl"},
		Usage:   "Inspect and export recorded world-record changes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the most recent changes, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of entries (0 for all)",
						Value:   20,
					},
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Only show changes fetched within this long (e.g. 24h)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ChangelistList,
			},
			{
				Name:  "export",
				Usage: "Write the changelist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, text)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: changelist.{ext})",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Export only the most recent entries (0 for all)",
					},
				},
				Action: r.ChangelistExport,
			},
			{
				Name:   "browse",
				Usage:  "Browse the changelist interactively",
				Action: r.TUI,
			},
		},
	}
}

// levelsCommand prints the official level table
func levelsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "List official levels with their leaderboard keys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Only show one mode (sprint, challenge, stunt)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Levels,
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration to --config",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the SQLite database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Print the schema version and pending migrations without changing anything",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive changelist browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing records and running updates",
		Action:  r.TUI,
	}
}
