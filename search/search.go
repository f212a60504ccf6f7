package search

import (
	"github.com/revelaction/depnorm/match"
	"github.com/revelaction/depnorm/storage"
)

// Search orchestrates the strategy selection for finding sentences
// that match an expression against a document repository.
type Search struct {
	repo  storage.DocReader
	docID *int
}

// New creates a new Search over the given repository.
func New(dr storage.DocReader) *Search {
	return &Search{repo: dr}
}

// WithDocID restricts the search to a single document ID.
// If set, the single-document strategy (Read) will be favored over
// the indexed strategy (FindCandidates).
func (s *Search) WithDocID(id int) *Search {
	s.docID = &id
	return s
}

// Sentences calls onMatch for each sentence matched by expr, handling
// pagination. It returns the cursor to resume from.
func (s *Search) Sentences(expr match.Expr, cursor storage.Cursor, limit int, onMatch func(*match.SentenceMatch) error) (storage.Cursor, error) {
	matcher := match.NewMatcher(expr)

	// Strategy 1: Single Document (No Index)
	if s.docID != nil {
		if cursor > 0 {
			return cursor, nil
		}

		doc, err := s.repo.Read(*s.docID)
		if err != nil {
			return cursor, err
		}

		for i, sentence := range doc.Sentences {
			if m := matcher.MatchSentence(sentence, *s.docID, i); m != nil {
				if err := onMatch(m); err != nil {
					return cursor, err
				}
			}
		}
		return 1, nil
	}

	// Strategy 2: Find candidates (indexed search)
	return s.repo.FindCandidates(expr.Words(), cursor, limit, func(res storage.Result) error {
		if m := matcher.MatchSentence(res.Sentence, res.DocID, res.Index); m != nil {
			return onMatch(m)
		}
		return nil
	})
}

// All collects the matches of expr across every page.
func (s *Search) All(expr match.Expr, pageSize int) ([]*match.SentenceMatch, error) {
	var results []*match.SentenceMatch
	collect := func(m *match.SentenceMatch) error {
		results = append(results, m)
		return nil
	}

	cursor := storage.Cursor(0)
	for {
		next, err := s.Sentences(expr, cursor, pageSize, collect)
		if err != nil {
			return nil, err
		}
		if next == cursor {
			return results, nil
		}
		cursor = next
	}
}
