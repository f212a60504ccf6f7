package match

import (
	"slices"
	"strings"

	"github.com/revelaction/depnorm/feature"
	sent "github.com/revelaction/depnorm/sentence"
)

// Matcher matches sentences against an Expr.
//
// The items of an expression form chains: an item with a distance is chained
// to the previous item, an item without one starts a new chain. A sentence
// matches if every chain matches. The expression
//
//	cuando 3 upostag=VERB
//
// is a single chain and matches the sentence
//
//	Cuando me vio abrir los ojos
//
// twice: [Cuando, vio] and [Cuando, abrir].
type Matcher struct {
	expr   Expr
	chains [][]Item
}

func NewMatcher(expr Expr) *Matcher {
	var chains [][]Item
	for _, item := range expr {
		if item.Near == 0 || len(chains) == 0 {
			chains = append(chains, []Item{item})
			continue
		}
		last := len(chains) - 1
		chains[last] = append(chains[last], item)
	}

	return &Matcher{expr: expr, chains: chains}
}

func (m *Matcher) Expr() Expr {
	return m.expr
}

// SentenceMatch is a sentence matched by an Expr.
type SentenceMatch struct {
	DocID int `json:"doc_id"`

	// SentenceIndex is the index of the sentence inside of the doc.
	SentenceIndex int `json:"sentence_index"`

	Sentence sent.Sentence `json:"sentence"`

	// Chains holds, for each chain of the expression, the matched token
	// sequences.
	Chains [][][]sent.Token `json:"chains"`
}

// Tokens returns every matched token once, in sentence order.
func (sm *SentenceMatch) Tokens() []sent.Token {
	seen := map[int]bool{}
	var tokens []sent.Token
	for _, chain := range sm.Chains {
		for _, seq := range chain {
			for _, t := range seq {
				if !seen[t.Index] {
					seen[t.Index] = true
					tokens = append(tokens, t)
				}
			}
		}
	}

	slices.SortFunc(tokens, func(a, b sent.Token) int {
		return a.Index - b.Index
	})
	return tokens
}

// MatchSentence returns the match of s, or nil.
func (m *Matcher) MatchSentence(s sent.Sentence, docID, index int) *SentenceMatch {
	chains := m.Match(s)
	if chains == nil {
		return nil
	}

	return &SentenceMatch{
		DocID:         docID,
		SentenceIndex: index,
		Sentence:      s,
		Chains:        chains,
	}
}

// Match returns the token sequences of every chain, or nil if a chain does
// not match.
func (m *Matcher) Match(s sent.Sentence) [][][]sent.Token {
	if len(m.chains) == 0 {
		return nil
	}

	tm := tokenMatcher{tokens: s.Tokens}

	result := make([][][]sent.Token, 0, len(m.chains))
	for _, chain := range m.chains {
		seqs := tm.chain(chain)
		if len(seqs) == 0 {
			return nil
		}

		chainTokens := make([][]sent.Token, 0, len(seqs))
		for _, seq := range seqs {
			tokens := make([]sent.Token, len(seq))
			for i, pos := range seq {
				tokens[i] = s.Tokens[pos]
			}
			chainTokens = append(chainTokens, tokens)
		}
		result = append(result, chainTokens)
	}

	return result
}

type tokenMatcher struct {
	tokens []sent.Token

	// parsed tags, by token position
	attrs []map[string]string
}

// chain returns the position sequences matching a chain of items.
func (tm *tokenMatcher) chain(items []Item) [][]int {
	var seqs [][]int
	for pos := range tm.tokens {
		if tm.match(pos, items[0]) {
			seqs = append(seqs, []int{pos})
		}
	}

	for _, item := range items[1:] {
		var next [][]int
		for _, seq := range seqs {
			prev := seq[len(seq)-1]
			end := min(prev+item.Near, len(tm.tokens)-1)
			for pos := prev + 1; pos <= end; pos++ {
				if tm.match(pos, item) {
					next = append(next, append(slices.Clone(seq), pos))
				}
			}
		}
		seqs = next
	}

	return seqs
}

func (tm *tokenMatcher) match(pos int, item Item) bool {
	t := tm.tokens[pos]

	var have string
	switch item.Kind {
	case Word:
		have = strings.ToLower(t.Word)
	case Label:
		have = t.Label
	case Attr:
		have = tm.attr(pos)[item.Name]
		if have == "" {
			return false
		}
	}

	return slices.Contains(item.Values, have)
}

func (tm *tokenMatcher) attr(pos int) map[string]string {
	if tm.attrs == nil {
		tm.attrs = make([]map[string]string, len(tm.tokens))
	}
	if tm.attrs[pos] == nil {
		tm.attrs[pos] = feature.Map(tm.tokens[pos].Tag)
	}
	return tm.attrs[pos]
}
