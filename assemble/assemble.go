// Package assemble turns raw parser record sets into sentences with
// codepoint offsets, resolved heads and flattened tags.
package assemble

import (
	"io"
	"log/slog"
)

// Assembler builds sentences for one parser convention. It is safe for
// concurrent use.
type Assembler struct {
	conv    Convention
	workers int
	logger  *slog.Logger
}

type Option func(*Assembler)

// WithWorkers sets the number of sentences assembled concurrently by Batch.
// Values below 2 keep Batch sequential.
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		a.workers = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

func New(conv Convention, opts ...Option) *Assembler {
	a := &Assembler{
		conv:    conv,
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Convention() Convention {
	return a.conv
}
