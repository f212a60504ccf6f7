package assemble

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/sentence"
)

// Batch assembles record sets in order. Any failure aborts the whole batch.
func (a *Assembler) Batch(rss []raw.Sentence, segmented bool) ([]sentence.Sentence, error) {
	for i, rs := range rss {
		if len(rs) == 0 {
			return nil, fmt.Errorf("sentence %d: no records: %w", i, ErrEmptySentence)
		}
	}

	out := make([]sentence.Sentence, len(rss))

	if a.workers < 2 {
		for i, rs := range rss {
			s, err := a.Sentence(rs, i, segmented)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(a.workers)
	for i, rs := range rss {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := a.Sentence(rs, i, segmented)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("batch", "sentences", len(out), "workers", a.workers)
	return out, nil
}

// Source assembles every record set of src.
func (a *Assembler) Source(src raw.Source, segmented bool) ([]sentence.Sentence, error) {
	rss, err := src.Sentences()
	if err != nil {
		return nil, err
	}
	return a.Batch(rss, segmented)
}
