// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func languageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "language",
		Aliases: []string{"l"},
		Usage:   "Catalog language (default: catalog.language from config)",
	}
}

func genreFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "genre",
		Aliases: []string{"g"},
		Usage:   "Only show movies in any of these genres (repeatable)",
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "TMDB API key to store in the new file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// catalogCommand handles direct catalog lookups.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"tmdb"},
		Usage:   "Movie catalog lookups",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Suggest up to five movies matching a query",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{languageFlag(), jsonFlag()},
				Action: r.CatalogSearch,
			},
			{
				Name:  "details",
				Usage: "Show a movie with cast, director and trailer",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{languageFlag(), jsonFlag()},
				Action: r.CatalogDetails,
			},
			{
				Name:   "genres",
				Usage:  "List catalog genres",
				Flags:  []cli.Flag{languageFlag(), jsonFlag()},
				Action: r.CatalogGenres,
			},
			{
				Name:   "languages",
				Usage:  "List languages the catalog can localize into",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.CatalogLanguages,
			},
		},
	}
}

// listCommand handles operations on the curated list.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Curated list operations",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the list in its current order",
				Flags:  []cli.Flag{languageFlag(), genreFlag(), jsonFlag()},
				Action: r.ListShow,
			},
			{
				Name:  "move",
				Usage: "Move a movie to the position of another",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "moved"},
					&cli.StringArg{Name: "target"},
				},
				Flags:  []cli.Flag{languageFlag(), genreFlag(), jsonFlag()},
				Action: r.ListMove,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie from the list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{languageFlag()},
				Action: r.ListRemove,
			},
			{
				Name:  "add",
				Usage: "Add a movie by catalog id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{languageFlag(), jsonFlag()},
				Action: r.ListAdd,
			},
			{
				Name:   "save",
				Usage:  "Send the current view to the backend as one batch",
				Flags:  []cli.Flag{languageFlag(), genreFlag(), jsonFlag()},
				Action: r.ListSave,
			},
			{
				Name:  "export",
				Usage: "Export the current view",
				Flags: []cli.Flag{
					languageFlag(),
					genreFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt or json",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (markdown: directory; '-' writes to stdout)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "List title used in the export",
						Value: "My Movies",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download posters next to a markdown export",
					},
				},
				Action: r.ListExport,
			},
			{
				Name:  "trailer",
				Usage: "Open a movie's trailer in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{languageFlag()},
				Action: r.ListTrailer,
			},
		},
	}
}

// enrichCommand resolves free-text titles into list entries.
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "enrich",
		Usage:     "Look up titles in the catalog and add them to the list",
		ArgsUsage: "[title...]",
		Flags: []cli.Flag{
			languageFlag(),
			jsonFlag(),
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read titles from a file, one per line",
			},
		},
		Action: r.Enrich,
	}
}

// backendCommand handles direct calls to the list backend.
func backendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backend",
		Usage: "Direct calls to the list backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.BackendGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.BackendPost,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the curated list over HTTP",
		Flags: []cli.Flag{
			languageFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default: server.host from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (default: server.port from config)",
			},
		},
		Action: r.Serve,
	}
}
