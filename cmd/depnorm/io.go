package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/render"
	sent "github.com/revelaction/depnorm/sentence"
)

const (
	inputJSON   = "json"
	inputConllu = "conllu"

	formatText   = "text"
	formatTokens = "tokens"
	formatJSON   = "json"
	formatConllu = "conllu"
)

var (
	inputFormats  = []string{inputJSON, inputConllu}
	outputFormats = []string{formatText, formatTokens, formatJSON, formatConllu}
)

// readInput reads the file named by the first argument, or the app reader if
// there is none or it is "-".
func readInput(c *cli.Context) ([]byte, error) {
	name := c.Args().First()
	if name == "" || name == "-" {
		return io.ReadAll(c.App.Reader)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	return data, nil
}

// rawSource returns the Source for data. An empty input format is guessed
// from the file extension.
func rawSource(data []byte, input, name string) (raw.Source, error) {
	if input == "" {
		input = inputJSON
		if strings.EqualFold(filepath.Ext(name), ".conllu") {
			input = inputConllu
		}
	}

	switch input {
	case inputJSON:
		return raw.JSONSource{R: bytes.NewReader(data)}, nil
	case inputConllu:
		return &raw.ConlluSource{R: bytes.NewReader(data)}, nil
	}
	return nil, fmt.Errorf("unknown input format %q, want one of %v", input, inputFormats)
}

func checkFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("unknown output format %q, want one of %v", format, outputFormats)
	}
	return nil
}

// writeSentences renders sentences in one of the output formats.
func writeSentences(w io.Writer, sentences []sent.Sentence, format string) error {
	switch format {
	case formatJSON:
		r := render.NewJSONRenderer(w)
		r.Indent = true
		return r.Render(sentences)
	case formatConllu:
		return render.NewConlluRenderer(w).Render(sentences)
	case formatTokens:
		r := render.NewRenderer(w)
		for i, s := range sentences {
			r.Sentence(s, fmt.Sprintf("✍  %d ", i))
			r.Tokens(s)
			fmt.Fprintln(w)
		}
		return nil
	case formatText:
		r := render.NewRenderer(w)
		for i, s := range sentences {
			r.Sentence(s, fmt.Sprintf("✍  %d ", i))
		}
		return nil
	}
	return checkFormat(format)
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format: " + strings.Join(outputFormats, ", "),
		Value:   formatJSON,
	}
}

func workersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "sentences assembled concurrently (default from config)",
	}
}

func (e *env) workers(c *cli.Context) int {
	if c.IsSet("workers") {
		return c.Int("workers")
	}
	return e.cfg.Assemble.Workers
}
