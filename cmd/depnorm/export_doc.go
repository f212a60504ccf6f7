package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
)

func (e *env) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "copy every doc to another repository, a directory or a SQLite file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "destination repository",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "no progress bar",
			},
		},
		Action: e.export,
	}
}

func (e *env) export(c *cli.Context) (err error) {
	to := c.String("to")
	if to == e.cfg.Storage.DocPath {
		return errors.New("source and destination are the same repository")
	}

	src, err := e.repository(false)
	if err != nil {
		return err
	}

	// the destination needs its own pool
	dstPool := &Pool{}
	defer func() {
		if cerr := dstPool.Close(); err == nil {
			err = cerr
		}
	}()

	dst, err := NewDocRepository(dstPool, to, true)
	if err != nil {
		return err
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	quiet := c.Bool("quiet")
	var bar *uiprogress.Bar
	if !quiet {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		defer uiprogress.Stop()
	}

	for _, meta := range docs {
		doc, err := src.Read(meta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s (id %d): %w", meta.Title, meta.Id, err)
		}

		// Title, Labels and Batch come from the listing
		doc.Title, doc.Labels, doc.Batch = meta.Title, meta.Labels, meta.Batch

		if _, err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", meta.Title, err)
		}
		if bar != nil {
			bar.Incr()
		}
	}

	if quiet {
		fmt.Fprintf(c.App.Writer, "Exported %d docs from %s to %s\n", len(docs), e.cfg.Storage.DocPath, to)
	}
	return nil
}
