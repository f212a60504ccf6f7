package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/stat"
)

func (e *env) statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print statistics of one doc, or of all",
		ArgsUsage: "[doc id]",
		Action:    e.stat,
	}
}

func (e *env) stat(c *cli.Context) error {
	repo, err := e.repository(false)
	if err != nil {
		return err
	}

	var ids []int
	if c.NArg() > 0 {
		id, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return fmt.Errorf("invalid doc id %q", c.Args().First())
		}
		ids = append(ids, id)
	} else {
		docs, err := repo.List("")
		if err != nil {
			return err
		}
		for _, d := range docs {
			ids = append(ids, d.Id)
		}
	}

	hdl := stat.NewHandler()
	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return err
		}
		hdl.Aggregate(doc)
	}

	stats := hdl.Get()
	w := c.App.Writer
	fmt.Fprintf(w, "Num docs %d, num sentences %d, num tokens %d, num tokens per sentence %d\n",
		len(ids), stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)
	fmt.Fprintf(w, "Roots %d, tokens with unknown offsets %d\n", stats.NumRoots, stats.NumUnknownOffsets)

	labels := make([]string, 0, len(stats.Labels))
	for l := range stats.Labels {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if stats.Labels[labels[i]] != stats.Labels[labels[j]] {
			return stats.Labels[labels[i]] > stats.Labels[labels[j]]
		}
		return labels[i] < labels[j]
	})
	for _, l := range labels {
		fmt.Fprintf(w, "%12s %d\n", l, stats.Labels[l])
	}

	return nil
}
