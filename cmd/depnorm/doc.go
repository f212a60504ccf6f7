package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/render"
)

func (e *env) docCommand() *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "list the docs, or print the sentences of one",
		ArgsUsage: "[doc id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "list only docs with a label containing this",
			},
			&cli.IntFlag{
				Name:  "start",
				Usage: "first sentence",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "number of sentences, 0 for all",
			},
		},
		Action: e.doc,
	}
}

func (e *env) doc(c *cli.Context) error {
	repo, err := e.repository(false)
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		docs, err := repo.List(c.String("label"))
		if err != nil {
			return err
		}
		for _, d := range docs {
			labels := ""
			if len(d.Labels) > 0 {
				labels = " [" + strings.Join(d.Labels, ", ") + "]"
			}
			fmt.Fprintf(c.App.Writer, "📖 %d %s%s\n", d.Id, d.Title, labels)
		}
		return nil
	}

	docId, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid doc id %q", c.Args().First())
	}

	doc, err := repo.Read(docId)
	if err != nil {
		return err
	}

	start, count := c.Int("start"), c.Int("count")
	r := render.NewRenderer(c.App.Writer)
	for i, s := range doc.Sentences {
		if i < start {
			continue
		}
		if count > 0 && i >= start+count {
			break
		}
		r.Sentence(s, fmt.Sprintf("✍  %d-%d ", docId, i))
	}

	return nil
}

func (e *env) labelsCommand() *cli.Command {
	return &cli.Command{
		Name:      "labels",
		Usage:     "list the doc labels",
		ArgsUsage: "[pattern]",
		Action: func(c *cli.Context) error {
			repo, err := e.repository(false)
			if err != nil {
				return err
			}

			labels, err := repo.Labels(c.Args().First())
			if err != nil {
				return err
			}

			if len(labels) > 0 {
				fmt.Fprintln(c.App.Writer, strings.Join(labels, ", "))
			}
			return nil
		},
	}
}
