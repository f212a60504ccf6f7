package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// set by the linker
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "depnorm version %s (commit: %s)\n", BuildTag, BuildCommit)
			return err
		},
	}
}
