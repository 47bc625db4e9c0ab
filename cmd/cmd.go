// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// batchFlags are shared by resolve and tui.
func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "File with one search query per line (default: files.searches)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Export path (default: files.output)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: xlsx, csv, json or sqlite (default: from the output extension)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Queries resolved concurrently, 1 to 10 (default: search.workers)",
		},
		&cli.BoolFlag{
			Name:  "no-video",
			Usage: "Skip YouTube link lookup",
		},
	}
}

// resolveCommand runs a batch over an input file and exports the result.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "resolve",
		Aliases: []string{"run"},
		Usage:   "Resolve every query in the input file and export the songs",
		Flags: append(batchFlags(),
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show progress in the interactive TUI",
			},
		),
		Action: r.Resolve,
	}
}

// searchCommand resolves a single query.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Resolve one query and print the song record",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-video",
				Usage: "Skip YouTube link lookup",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// lyricsCommand fetches lyrics for one page.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lyrics",
		Usage:     "Fetch and print cleaned lyrics for a Genius song page",
		ArgsUsage: "<url>",
		Action:    r.Lyrics,
	}
}

// videoCommand looks up one video link.
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "video",
		Aliases:   []string{"yt"},
		Usage:     "Look up a YouTube link for a song",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Primary artist",
			},
		},
		Action: r.Video,
	}
}

// runsCommand inspects an SQLite export.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List runs stored in an SQLite export",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "Path to the SQLite export",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Show the failures of one run",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Runs,
	}
}

// setupCommand handles setup operations for configuration and the export database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the config file",
						Value: "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create an SQLite export database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Database path",
						Value: "lyrx.db",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for an interactive batch run.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Resolve the input file with the interactive TUI",
		Flags:   batchFlags(),
		Action:  r.TUI,
	}
}
