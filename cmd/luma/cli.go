package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/engine"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/ops"
	"github.com/lumahq/luma/internal/period"
	"github.com/lumahq/luma/internal/summarizer"
	"github.com/lumahq/luma/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "luma",
		Usage:   "Mood captures & insights",
		Version: Version,
		Commands: []*cli.Command{
			logCmd(db, cfg),
			listCmd(db, cfg),
			deleteCmd(db, cfg),
			pendingCmd(db, cfg),
			insightCmd(db, cfg),
			flowCmd(db, cfg),
			signalCmd(db, cfg),
			streakCmd(db, cfg),
			moodtimeCmd(db, cfg),
			albumCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// logCmd creates the log command.
func logCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Record a mood capture",
		ArgsUsage: "<mood>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name for a custom_<id> mood"},
			&cli.StringFlag{Name: "note", Usage: "Optional note"},
			&cli.StringFlag{Name: "image", Usage: "Image storage reference"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.BoolFlag{Name: "private", Usage: "Exclude this capture from insights"},
			&cli.StringFlag{Name: "at", Usage: "Capture time (RFC 3339, default now)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewValidate("mood argument is required"))
			}

			input := ops.LogInput{
				Mood:     c.Args().First(),
				ImageRef: c.String("image"),
			}
			if name := c.String("name"); name != "" {
				input.MoodName = &name
			}
			if note := c.String("note"); note != "" {
				input.Note = &note
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if c.Bool("private") {
				excluded := false
				input.IncludeInInsights = &excluded
			}
			if at := c.String("at"); at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return outputError(errors.NewValidate("at must be RFC 3339, e.g. 2026-01-02T15:04:05Z"))
				}
				local := ts.Local()
				input.At = &local
			}

			output, err := ops.Log(db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List captures, newest last",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Limit to the current daily|weekly|monthly window"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 50, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{Limit: c.Int("limit")}

			if k := c.String("kind"); k != "" {
				kind, err := parseKind(k)
				if err != nil {
					return outputError(err)
				}
				input.Kind = &kind
			}

			output, err := ops.List(db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a capture",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewValidate("id argument is required"))
			}

			output, err := ops.Delete(db, cfg, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// pendingCmd creates the pending command.
func pendingCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "pending",
		Usage: "Show how many captures each insight has not seen yet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "album", Usage: "Album ID (album scope instead of the temporal kinds)"},
		},
		Action: func(c *cli.Context) error {
			eng := engine.New(db, nil, cfg)

			if albumID := c.String("album"); albumID != "" {
				pending, err := eng.PendingForAlbum(albumID)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(pending)
			}

			pending, err := eng.Pending()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(pending)
		},
	}
}

// insightCmd creates the insight command.
func insightCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "insight",
		Usage:     "Generate (or re-serve) an insight narrative",
		ArgsUsage: "<daily|weekly|monthly|album>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "album", Usage: "Album ID (required for the album scope)"},
			&cli.BoolFlag{Name: "force", Usage: "Monthly only: bypass the regeneration gate"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewValidate("scope argument is required: daily, weekly, monthly, or album"))
			}
			scope := c.Args().First()

			sum, err := summarizer.NewOpenAI(cfg)
			if err != nil {
				return outputError(err)
			}
			eng := engine.New(db, sum, cfg)

			switch scope {
			case "daily", "weekly":
				state := eng.Refresh(c.Context, period.Kind(scope))
				return outputState(state)
			case "monthly":
				res := eng.RefreshMonthly(c.Context, c.Bool("force"))
				if err := outputJSON(res); err != nil {
					return err
				}
				if res.State.Err != nil {
					return cli.Exit(fmt.Sprintf("[%s] %s", res.State.Err.Stage, res.State.Err.Message), 1)
				}
				return nil
			case "album":
				albumID := c.String("album")
				if albumID == "" {
					return outputError(errors.NewValidate("--album is required for the album scope"))
				}
				state := eng.RefreshAlbum(c.Context, albumID)
				return outputState(state)
			default:
				return outputError(errors.NewValidate("scope must be daily, weekly, monthly, or album"))
			}
		},
	}
}

// flowCmd creates the flow command.
func flowCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "flow",
		Usage: "Show a day's mood timeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day key (2006-01-02, default today)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Flow(db, cfg, ops.FlowInput{Day: c.String("day")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// signalCmd creates the signal command.
func signalCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "signal",
		Usage: "Show this week's mood-signal pattern",
		Action: func(c *cli.Context) error {
			output, err := ops.Signal(db, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// streakCmd creates the streak command.
func streakCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "streak",
		Usage: "Show consecutive-day logging streaks",
		Action: func(c *cli.Context) error {
			output, err := ops.Streak(db, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// moodtimeCmd creates the moodtime command.
func moodtimeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "moodtime",
		Usage: "Show the top mood per time-of-day bucket",
		Action: func(c *cli.Context) error {
			output, err := ops.MoodByTime(db, cfg, ops.MoodByTimeInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// albumCmd creates the album command group.
func albumCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Manage capture albums",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an empty album",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewValidate("name argument is required"))
					}
					output, err := ops.AlbumCreate(db, cfg, ops.AlbumCreateInput{Name: strings.Join(c.Args().Slice(), " ")})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "add",
				Usage:     "Add a capture to an album",
				ArgsUsage: "<album-id> <capture-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewValidate("album-id and capture-id arguments are required"))
					}
					output, err := ops.AlbumAdd(db, cfg, ops.AlbumAddInput{
						AlbumID:   c.Args().Get(0),
						CaptureID: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List albums with member counts",
				Action: func(c *cli.Context) error {
					output, err := ops.AlbumList(db, cfg)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "show",
				Usage:     "Show one album and its captures",
				ArgsUsage: "<album-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewValidate("album-id argument is required"))
					}
					output, err := ops.AlbumShow(db, cfg, ops.AlbumShowInput{AlbumID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the read-only web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := c.String("bind")
			if bind == "" {
				bind = cfg.WebBind
			}
			if bind == "" {
				bind = "127.0.0.1"
			}
			port := c.Int("port")
			if port == 0 {
				port = cfg.WebPort
			}
			if port == 0 {
				port = 7860
			}

			srv := web.NewServer(db, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputState prints an orchestrator state, exiting non-zero when the
// refresh landed in the error state.
func outputState(state engine.State) error {
	if err := outputJSON(state); err != nil {
		return err
	}
	if state.Err != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", state.Err.Stage, state.Err.Message), 1)
	}
	return nil
}

// outputError formats error for CLI.
func outputError(err error) error {
	if iErr, ok := err.(*errors.InsightError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", iErr.Stage, iErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseKind validates a temporal kind argument.
func parseKind(s string) (period.Kind, error) {
	switch s {
	case "daily", "weekly", "monthly":
		return period.Kind(s), nil
	default:
		return "", errors.NewValidate("kind must be daily, weekly, or monthly")
	}
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
