package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/query"
)

func (e *env) queryCommand() *cli.Command {
	return &cli.Command{
		Name:   "query",
		Usage:  "search the docs interactively",
		Flags:  matchFlags(),
		Action: e.query,
	}
}

func (e *env) query(c *cli.Context) error {
	repo, err := e.repository(false)
	if err != nil {
		return err
	}

	r, err := newRenderer(c, repo)
	if err != nil {
		return err
	}

	return query.NewHandler(repo, r, c.App.Writer).Run()
}
