// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func indexFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "index",
		Aliases: []string{"i"},
		Usage:   "Position of the separator among the directory's children",
		Value:   0,
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recently applied migration instead of migrating",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// lifecycleCommand drives install and update events.
func lifecycleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lifecycle",
		Aliases: []string{"lc"},
		Usage:   "Simulate extension lifecycle events",
		Commands: []*cli.Command{
			{
				Name:   "install",
				Usage:  "Handle an install event (onboarding + install rules on a fresh install)",
				Flags:  jsonFlags(),
				Action: r.LifecycleInstall,
			},
			{
				Name:  "update",
				Usage: "Handle an update from a previous version",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Previously installed version",
						Required: true,
					},
				}, jsonFlags()...),
				Action: r.LifecycleUpdate,
			},
			{
				Name:   "update-available",
				Usage:  "Reload the extension so a pending update is applied",
				Action: r.LifecycleUpdateAvailable,
			},
			{
				Name:  "history",
				Usage: "List recorded lifecycle events, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Only events of this kind (installed, updated, update_available)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of events to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, csv, markdown)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the history to a file instead of stdout",
					},
				},
				Action: r.LifecycleHistory,
			},
		},
	}
}

// pinCommand manages pinned entries.
func pinCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "pin",
		Usage: "Manage pinned entries",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Pin an entry at the end of the list",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PinAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Unpin an entry",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PinRemove,
			},
			{
				Name:   "list",
				Usage:  "List pinned entries by index",
				Flags:  jsonFlags(),
				Action: r.PinList,
			},
		},
	}
}

// separatorCommand manages per-directory separators.
func separatorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "separator",
		Aliases: []string{"sep"},
		Usage:   "Manage directory separators",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a separator to a directory",
				Arguments: []cli.Argument{&cli.StringArg{Name: "parent"}},
				Flags:     []cli.Flag{indexFlag()},
				Action:    r.SeparatorAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove the first separator at an index",
				Arguments: []cli.Argument{&cli.StringArg{Name: "parent"}},
				Flags:     []cli.Flag{indexFlag()},
				Action:    r.SeparatorRemove,
			},
			{
				Name:      "list",
				Usage:     "List separators of one directory, or of all directories",
				Arguments: []cli.Argument{&cli.StringArg{Name: "parent"}},
				Flags:     jsonFlags(),
				Action:    r.SeparatorList,
			},
		},
	}
}

// settingsCommand inspects the synced settings.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect and edit synced settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the behaviour, appearance and newtab sections",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SettingsShow,
			},
			{
				Name:      "get",
				Usage:     "Print one value by dotted path, e.g. appearance.styles.iconColor",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.SettingsGet,
			},
			{
				Name:  "set",
				Usage: "Overwrite one value by dotted path; the value is JSON or a plain string",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsSet,
			},
		},
	}
}

// pageTypeCommand classifies a URL.
func pageTypeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "pagetype",
		Usage:     "Classify a URL and report whether the sidebar mask is shown",
		Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
		Flags:     jsonFlags(),
		Action:    r.PageType,
	}
}
