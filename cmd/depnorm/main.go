package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/config"
)

// UI contains the streams of the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "depnorm: %v\n", err)
}

// env is the state shared by the commands, set up before any of them runs.
type env struct {
	ui     UI
	cfg    *config.Config
	logger *slog.Logger
	pool   *Pool
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui, pool: &Pool{}}

	return &cli.App{
		Name:                 "depnorm",
		Usage:                "normalize dependency parser output into sentences with codepoint offsets",
		Version:              BuildTag,
		EnableBashCompletion: true,
		Reader:               ui.In,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{config.PathEnv},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "doc repository: a directory of JSON docs or a SQLite file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: e.setup,
		After: func(*cli.Context) error {
			return e.pool.Close()
		},
		Commands: []*cli.Command{
			e.normalizeCommand(),
			e.parseCommand(),
			e.importCommand(),
			e.exportCommand(),
			e.docCommand(),
			e.labelsCommand(),
			e.sentenceCommand(),
			e.statCommand(),
			e.grepCommand(),
			e.queryCommand(),
			bashCommand(),
			versionCommand(),
		},
	}
}

// setup loads the configuration, applies the global flags and creates the
// logger.
func (e *env) setup(c *cli.Context) error {
	cfg, err := config.LoadFrom(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("db") {
		cfg.Storage.DocPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	e.cfg = cfg
	e.logger = NewLogger(cfg.Log, e.ui.Err)
	return nil
}
