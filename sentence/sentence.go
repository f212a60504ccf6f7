package sentence

import (
	"fmt"
	"strconv"
	"strings"
)

// Doc is a named collection of assembled sentences.
type Doc struct {
	Id int

	Title string

	Labels []string

	// uuid of the import run that stored the doc
	Batch string `json:"batch,omitempty"`

	Sentences []Sentence `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is a parsed sentence with its tokens.
type Sentence struct {
	Text string `json:"text"`

	// codepoint offsets of the sentence, -1 if unknown
	Start int `json:"start"`
	End   int `json:"end"`

	Tokens []Token `json:"tokens"`

	DocID string `json:"doc_id"`
}

// Token represents a word of the sentence, with its morphology and its
// dependency relation.
type Token struct {
	// position of the sentence in its batch
	SentenceIndex int `json:"sentence_index"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`

	// The unmodified word
	Word string `json:"word"`

	// codepoint offsets in the sentence text, -1 if unknown. End is inclusive.
	Start int `json:"start"`
	End   int `json:"end"`

	Category string `json:"category"`

	// flattened morphology, see package feature
	Tag string `json:"tag"`

	// index of the head token, -1 for the root or if unknown
	Head  int    `json:"head"`
	Label string `json:"label"`

	BreakLevel int `json:"break_level"`

	// enhanced dependencies, head:label pairs separated by |
	Deps string `json:"deps"`
}

// IsRoot reports whether the token has no head.
func (t Token) IsRoot() bool {
	return t.Head == -1
}

// HasSegment reports whether both offsets are known.
func (t Token) HasSegment() bool {
	return t.Start != -1 && t.End != -1
}

// Segment returns the token text as cut from the sentence text, or "" if the
// offsets are unknown.
func (s Sentence) Segment(t Token) string {
	if !t.HasSegment() {
		return ""
	}
	runes := []rune(s.Text)
	if t.Start > t.End || t.End >= len(runes) {
		return ""
	}
	return string(runes[t.Start : t.End+1])
}

// Break levels between a token and the previous one.
const (
	NoBreak = iota
	SpaceBreak
	LineBreak
	SentenceBreak
)

var breakLevelNames = []string{"no_break", "space_break", "line_break", "sentence_break"}

// BreakLevelName returns the lowercase name of a break level, "" for -1 or
// an unknown level.
func BreakLevelName(level int) string {
	if level < 0 || level >= len(breakLevelNames) {
		return ""
	}
	return breakLevelNames[level]
}

// Dep is one enhanced dependency.
type Dep struct {
	Head  int
	Label string
}

// ParseDeps parses an enhanced dependencies string of head:label pairs
// separated by |.
func ParseDeps(deps string) ([]Dep, error) {
	deps = strings.TrimSpace(deps)
	if deps == "" {
		return nil, nil
	}

	var result []Dep
	for _, part := range strings.Split(deps, "|") {
		head, label, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid dependency %q", part)
		}
		h, err := strconv.Atoi(head)
		if err != nil {
			return nil, fmt.Errorf("invalid dependency head %q: %w", part, err)
		}
		result = append(result, Dep{Head: h, Label: label})
	}
	return result, nil
}
