// Package parser runs a dependency parser backend and assembles its output.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/revelaction/depnorm/assemble"
	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/sentence"
)

var (
	ErrClosed           = errors.New("parser session closed")
	ErrNullHandle       = errors.New("null model handle")
	ErrSplitUnsupported = errors.New("backend cannot split text into sentences")
)

// Handle identifies a loaded model. The zero Handle is never valid.
type Handle int64

// Backend loads models and parses text into raw record sets.
type Backend interface {
	Version() int
	Load(modelPath string) (Handle, error)
	Unload(h Handle) error

	// Parse returns one record set per text, each text being one sentence.
	Parse(ctx context.Context, h Handle, texts []string) ([]raw.Sentence, error)
}

// Splitter is implemented by backends that can split texts into sentences.
// Token offsets of the returned record sets are relative to the input text.
type Splitter interface {
	SplitParse(ctx context.Context, h Handle, texts []string) ([]raw.Sentence, error)
}

// Session holds a loaded model until Close.
type Session struct {
	mu     sync.RWMutex
	closed bool

	backend   Backend
	handle    Handle
	modelPath string

	asm    *assemble.Assembler
	logger *slog.Logger
}

type Option func(*options)

type options struct {
	logger  *slog.Logger
	workers int
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkers sets the number of sentences assembled concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Open loads the model at modelPath.
func Open(backend Backend, modelPath string, conv assemble.Convention, opts ...Option) (*Session, error) {
	o := options{logger: slog.Default(), workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	h, err := backend.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}
	if h == 0 {
		return nil, fmt.Errorf("load model %s: %w", modelPath, ErrNullHandle)
	}

	o.logger.Debug("model loaded", "path", modelPath, "convention", conv.Name, "version", backend.Version())

	return &Session{
		backend:   backend,
		handle:    h,
		modelPath: modelPath,
		asm:       assemble.New(conv, assemble.WithLogger(o.logger), assemble.WithWorkers(o.workers)),
		logger:    o.logger,
	}, nil
}

// ModelPath, Version and Convention describe the loaded model. They stay
// valid after Close.
func (s *Session) ModelPath() string {
	return s.modelPath
}

func (s *Session) Version() int {
	return s.backend.Version()
}

func (s *Session) Convention() assemble.Convention {
	return s.asm.Convention()
}

// Parse parses texts, one sentence each, and returns one sentence per text.
func (s *Session) Parse(ctx context.Context, texts []string) ([]sentence.Sentence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	rss, err := s.backend.Parse(ctx, s.handle, texts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if len(rss) != len(texts) {
		return nil, fmt.Errorf("parse: backend returned %d sentences for %d texts", len(rss), len(texts))
	}

	return s.asm.Batch(rss, false)
}

// SplitParse parses texts that may hold several sentences each.
func (s *Session) SplitParse(ctx context.Context, texts []string) ([]sentence.Sentence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	splitter, ok := s.backend.(Splitter)
	if !ok {
		return nil, ErrSplitUnsupported
	}

	rss, err := splitter.SplitParse(ctx, s.handle, texts)
	if err != nil {
		return nil, fmt.Errorf("split parse: %w", err)
	}

	return s.asm.Batch(rss, true)
}

// Close unloads the model.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true

	if err := s.backend.Unload(s.handle); err != nil {
		return fmt.Errorf("unload model %s: %w", s.modelPath, err)
	}

	s.logger.Debug("model unloaded", "path", s.modelPath)
	return nil
}
