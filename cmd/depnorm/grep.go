package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/match"
	"github.com/revelaction/depnorm/render"
	"github.com/revelaction/depnorm/search"
	"github.com/revelaction/depnorm/storage"
)

// candidates fetched per page
const pageSize = 500

func matchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "match format: " + strings.Join(render.SupportedFormats(), ", "),
			Value: render.Defaultformat,
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "do not highlight the matches",
		},
		&cli.BoolFlag{
			Name:  "no-prefix",
			Usage: "do not prefix the doc and sentence of a match",
		},
	}
}

func newRenderer(c *cli.Context, repo storage.DocReader) (*render.Renderer, error) {
	format := c.String("format")
	supported := false
	for _, f := range render.SupportedFormats() {
		supported = supported || f == format
	}
	if !supported {
		return nil, fmt.Errorf("unknown format %q, want one of %v", format, render.SupportedFormats())
	}

	r := render.NewRenderer(c.App.Writer)
	r.Format = format
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = !c.Bool("no-prefix")

	docs, err := repo.List("")
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		r.AddDocName(d.Id, d.Title)
	}
	return r, nil
}

func (e *env) grepCommand() *cli.Command {
	return &cli.Command{
		Name:      "grep",
		Usage:     "print the sentences matching an expression",
		ArgsUsage: "<expr>...",
		Flags: append(matchFlags(),
			&cli.IntFlag{
				Name:    "doc",
				Aliases: []string{"d"},
				Usage:   "search only this doc",
			},
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "search only docs with a label containing this, can be repeated",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the matches as JSON",
			},
		),
		Action: e.grep,
	}
}

func (e *env) grep(c *cli.Context) error {
	expr, err := match.Parse(c.Args().Slice())
	if err != nil {
		return err
	}

	repo, err := e.repository(false)
	if err != nil {
		return err
	}

	s := search.New(repo)
	if c.IsSet("doc") {
		s = s.WithDocID(c.Int("doc"))
	}

	results, err := s.All(expr, pageSize)
	if err != nil {
		return err
	}

	if labels := c.StringSlice("label"); len(labels) > 0 {
		results, err = withLabels(repo, results, labels)
		if err != nil {
			return err
		}
	}

	e.logger.Debug("grep", "expr", expr.String(), "matches", len(results))

	if c.Bool("json") {
		return render.NewJSONRenderer(c.App.Writer).RenderMatches(results)
	}

	r, err := newRenderer(c, repo)
	if err != nil {
		return err
	}
	r.Match(results)
	return nil
}

// withLabels keeps the results of docs having every label.
func withLabels(repo storage.DocReader, results []*match.SentenceMatch, labels []string) ([]*match.SentenceMatch, error) {
	count := map[int]int{}
	for _, l := range labels {
		docs, err := repo.List(l)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			count[d.Id]++
		}
	}

	var kept []*match.SentenceMatch
	for _, r := range results {
		if count[r.DocID] == len(labels) {
			kept = append(kept, r)
		}
	}
	return kept, nil
}
