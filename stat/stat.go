package stat

import (
	sent "github.com/revelaction/depnorm/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// dependency label counts
	Labels map[string]int

	NumRoots int

	// tokens with at least one unknown offset
	NumUnknownOffsets int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}, Labels: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the sentences of doc to the stats. It can be called for
// several docs.
func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumSentences += len(doc.Sentences)

	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence.Tokens)
		h.stats.TokensPerSentenceDis[len(sentence.Tokens)]++

		for _, t := range sentence.Tokens {
			if t.Label != "" {
				h.stats.Labels[t.Label]++
			}
			if t.IsRoot() {
				h.stats.NumRoots++
			}
			if !t.HasSegment() {
				h.stats.NumUnknownOffsets++
			}
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}
