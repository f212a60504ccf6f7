package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/render"
)

func (e *env) sentenceCommand() *cli.Command {
	return &cli.Command{
		Name:      "sentence",
		Usage:     "print the tokens of a sentence, or describe one token",
		ArgsUsage: "<doc id> <sentence index> [token index]",
		Action:    e.sentence,
	}
}

func (e *env) sentence(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: sentence %s", c.Command.ArgsUsage)
	}

	ids := make([]int, c.NArg())
	for i, a := range c.Args().Slice() {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid index %q", a)
		}
		ids[i] = n
	}

	repo, err := e.repository(false)
	if err != nil {
		return err
	}

	doc, err := repo.Read(ids[0])
	if err != nil {
		return err
	}

	if ids[1] < 0 || ids[1] >= len(doc.Sentences) {
		return fmt.Errorf("doc %d has no sentence %d", ids[0], ids[1])
	}
	s := doc.Sentences[ids[1]]

	r := render.NewRenderer(c.App.Writer)
	r.Sentence(s, fmt.Sprintf("✍  %d-%d ", ids[0], ids[1]))
	fmt.Fprintln(c.App.Writer)

	if len(ids) == 2 {
		r.Tokens(s)
		return nil
	}

	if ids[2] < 0 || ids[2] >= len(s.Tokens) {
		return fmt.Errorf("sentence has no token %d", ids[2])
	}
	r.Describe(s, s.Tokens[ids[2]])
	return nil
}
