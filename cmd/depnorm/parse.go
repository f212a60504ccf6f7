package main

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/assemble"
	"github.com/revelaction/depnorm/parser"
	"github.com/revelaction/depnorm/parser/udpipe"
	sent "github.com/revelaction/depnorm/sentence"
)

func (e *env) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse text with udpipe and assemble the result",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "udpipe model file (default from config)",
			},
			&cli.StringFlag{
				Name:  "binary",
				Usage: "udpipe binary (default from config)",
			},
			&cli.BoolFlag{
				Name:  "split",
				Usage: "let udpipe split paragraphs into sentences, instead of one sentence per line",
			},
			formatFlag(),
			workersFlag(),
		},
		Action: e.parse,
	}
}

func (e *env) parse(c *cli.Context) error {
	format := c.String("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	model := e.cfg.Parser.Model
	if c.IsSet("model") {
		model = c.String("model")
	}
	if model == "" {
		return errors.New("no udpipe model, use --model or DEPNORM_MODEL")
	}

	bin := e.cfg.Parser.Binary
	if c.IsSet("binary") {
		bin = c.String("binary")
	}

	data, err := readInput(c)
	if err != nil {
		return err
	}

	split := c.Bool("split")
	texts := lines(string(data))
	if split {
		texts = paragraphs(string(data))
	}
	if len(texts) == 0 {
		return errors.New("no text to parse")
	}

	backend := udpipe.New(c.Context, udpipe.WithBinary(bin))
	session, err := parser.Open(backend, model, assemble.UDPipe,
		parser.WithLogger(e.logger),
		parser.WithWorkers(e.workers(c)),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	var sentences []sent.Sentence
	if split {
		sentences, err = session.SplitParse(c.Context, texts)
	} else {
		sentences, err = session.Parse(c.Context, texts)
	}
	if err != nil {
		return err
	}

	return writeSentences(c.App.Writer, sentences, format)
}

// lines returns the non blank lines of s.
func lines(s string) []string {
	var texts []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			texts = append(texts, l)
		}
	}
	return texts
}

// paragraphs returns the blocks of s separated by blank lines.
func paragraphs(s string) []string {
	var texts []string
	var block []string
	flush := func() {
		if len(block) > 0 {
			texts = append(texts, strings.Join(block, "\n"))
			block = nil
		}
	}

	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) == "" {
			flush()
			continue
		}
		block = append(block, strings.TrimRight(l, "\r"))
	}
	flush()

	return texts
}
