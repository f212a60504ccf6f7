package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/assemble"
)

func (e *env) normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "assemble raw parser output into sentences",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input format: json or conllu (default: by extension, json)",
			},
			formatFlag(),
			&cli.BoolFlag{
				Name:  "segmented",
				Usage: "token offsets are relative to a larger text, rebase them on the first token",
			},
			&cli.StringFlag{
				Name:  "convention",
				Usage: "parser convention: udpipe or syntaxnet (default from config)",
			},
			workersFlag(),
		},
		Action: e.normalize,
	}
}

func (e *env) normalize(c *cli.Context) error {
	format := c.String("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	name := e.cfg.Assemble.Convention
	if c.IsSet("convention") {
		name = c.String("convention")
	}
	conv, err := assemble.ConventionByName(name)
	if err != nil {
		return err
	}

	workers := e.workers(c)
	if workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", workers)
	}

	data, err := readInput(c)
	if err != nil {
		return err
	}

	src, err := rawSource(data, c.String("input"), c.Args().First())
	if err != nil {
		return err
	}

	asm := assemble.New(conv, assemble.WithWorkers(workers), assemble.WithLogger(e.logger))
	sentences, err := asm.Source(src, c.Bool("segmented"))
	if err != nil {
		return err
	}

	e.logger.Info("normalized", "sentences", len(sentences), "convention", conv.Name)
	return writeSentences(c.App.Writer, sentences, format)
}
