// Package udpipe drives the udpipe command line tool.
package udpipe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/revelaction/depnorm/parser"
	"github.com/revelaction/depnorm/raw"
)

const DefaultBinary = "udpipe"

var versionPattern = regexp.MustCompile(`version (\d+)\.(\d+)\.(\d+)`)

// Runner runs a command with stdin and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Backend parses text with udpipe models. Heads in its output are one-based
// and token ends are exclusive.
type Backend struct {
	bin    string
	runner Runner

	version int

	mu     sync.Mutex
	models map[parser.Handle]string
	next   parser.Handle
}

type Option func(*Backend)

func WithBinary(path string) Option {
	return func(b *Backend) {
		b.bin = path
	}
}

func WithRunner(r Runner) Option {
	return func(b *Backend) {
		b.runner = r
	}
}

// New returns a Backend. The udpipe version is queried once; it is 0 if the
// binary does not report one.
func New(ctx context.Context, opts ...Option) *Backend {
	b := &Backend{
		bin:    DefaultBinary,
		runner: ExecRunner{},
		models: map[parser.Handle]string{},
	}
	for _, opt := range opts {
		opt(b)
	}

	if out, err := b.runner.Run(ctx, b.bin, []string{"--version"}, nil); err == nil {
		b.version = parseVersion(string(out))
	}

	return b
}

// parseVersion encodes major.minor.patch as major*10000 + minor*100 + patch.
func parseVersion(s string) int {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v := 0
	for _, part := range m[1:] {
		n, _ := strconv.Atoi(part)
		v = v*100 + n
	}
	return v
}

func (b *Backend) Version() int {
	return b.version
}

func (b *Backend) Load(modelPath string) (parser.Handle, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.models[b.next] = modelPath
	return b.next, nil
}

func (b *Backend) Unload(h parser.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.models[h]; !ok {
		return parser.ErrNullHandle
	}
	delete(b.models, h)
	return nil
}

func (b *Backend) model(h parser.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.models[h]
	if !ok {
		return "", parser.ErrNullHandle
	}
	return m, nil
}

// Parse runs the presegmented tokenizer: every text is one sentence.
func (b *Backend) Parse(ctx context.Context, h parser.Handle, texts []string) ([]raw.Sentence, error) {
	model, err := b.model(h)
	if err != nil {
		return nil, err
	}

	if len(texts) == 0 {
		return nil, nil
	}

	// one line per sentence; replacing keeps byte offsets valid in texts
	lines := make([]string, len(texts))
	for i, t := range texts {
		lines[i] = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, t)
	}

	args := []string{"--tokenize", "--tokenizer=presegmented", "--tag", "--parse", model}
	out, err := b.runner.Run(ctx, b.bin, args, strings.NewReader(strings.Join(lines, "\n")+"\n"))
	if err != nil {
		return nil, err
	}

	return (&raw.ConlluSource{R: bytes.NewReader(out), Texts: texts}).Sentences()
}

// SplitParse lets the tokenizer split each text into sentences. Offsets are
// relative to the text.
func (b *Backend) SplitParse(ctx context.Context, h parser.Handle, texts []string) ([]raw.Sentence, error) {
	model, err := b.model(h)
	if err != nil {
		return nil, err
	}

	var all []raw.Sentence
	args := []string{"--tokenize", "--tag", "--parse", model}
	for i, text := range texts {
		out, err := b.runner.Run(ctx, b.bin, args, strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}

		rss, err := (&raw.ConlluSource{R: bytes.NewReader(out), Input: text}).Sentences()
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		all = append(all, rss...)
	}

	return all, nil
}

// compile-time interface check
var (
	_ parser.Backend  = (*Backend)(nil)
	_ parser.Splitter = (*Backend)(nil)
)
