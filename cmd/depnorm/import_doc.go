package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/assemble"
	sent "github.com/revelaction/depnorm/sentence"
)

func (e *env) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "assemble raw parser output files and store each as a doc",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input format: json or conllu (default: by extension, json)",
			},
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "label of the imported docs, can be repeated",
			},
			&cli.BoolFlag{
				Name:  "segmented",
				Usage: "rebase token offsets on the first token",
			},
			&cli.StringFlag{
				Name:  "convention",
				Usage: "parser convention: udpipe or syntaxnet (default from config)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "no progress bar",
			},
			workersFlag(),
		},
		Action: e.importDocs,
	}
}

func (e *env) importDocs(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("no files to import")
	}

	name := e.cfg.Assemble.Convention
	if c.IsSet("convention") {
		name = c.String("convention")
	}
	conv, err := assemble.ConventionByName(name)
	if err != nil {
		return err
	}

	repo, err := e.repository(true)
	if err != nil {
		return err
	}

	asm := assemble.New(conv, assemble.WithWorkers(e.workers(c)), assemble.WithLogger(e.logger))

	// all docs of one run share the batch id
	batch := uuid.NewString()
	labels := c.StringSlice("label")

	quiet := c.Bool("quiet")
	var bar *uiprogress.Bar
	if !quiet {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(files))
		bar.AppendCompleted()
		bar.PrependElapsed()
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			return filepath.Base(files[max(b.Current()-1, 0)])
		})
		defer uiprogress.Stop()
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("IO error: %w", err)
		}

		src, err := rawSource(data, c.String("input"), file)
		if err != nil {
			return err
		}

		sentences, err := asm.Source(src, c.Bool("segmented"))
		if err != nil {
			return fmt.Errorf("failed to assemble %s: %w", file, err)
		}

		doc := sent.Doc{
			Title:     strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Labels:    labels,
			Batch:     batch,
			Sentences: sentences,
		}

		id, err := repo.Write(doc)
		if err != nil {
			return fmt.Errorf("failed to write doc %s: %w", doc.Title, err)
		}
		e.logger.Info("doc imported", "id", id, "title", doc.Title, "sentences", len(sentences), "batch", batch)

		if bar != nil {
			bar.Incr()
		}
	}

	if quiet {
		fmt.Fprintf(c.App.Writer, "Imported %d docs to %s (batch %s)\n", len(files), e.cfg.Storage.DocPath, batch)
	}
	return nil
}
