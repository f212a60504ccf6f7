package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/revelaction/depnorm/feature"
	"github.com/revelaction/depnorm/match"
	sent "github.com/revelaction/depnorm/sentence"
)

const (
	partialOffset = 6
	Defaultformat = "all"
)

// ANSI colours
var (
	Off      = "\033[0m"
	Grey256  = "\033[1;38;5;145m"
	Green256 = "\033[1;38;5;70m"
)

// SupportedFormats are the formats of matched sentences.
func SupportedFormats() []string {
	return []string{"all", "part", "word", "aggr"}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of a matched sentence
	//
	// all: print all sentence
	// part: print the sorrounding of the matches in the sentence, cut the rest.
	// word: print only matched words of the sentence
	// aggr: count the matched words across sentences
	Format string

	DocNames map[int]string
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w, Format: Defaultformat, DocNames: map[int]string{}}
}

func (r *Renderer) AddDocName(docId int, name string) {
	r.DocNames[docId] = name
}

// Match renders matched sentences.
func (r *Renderer) Match(results []*match.SentenceMatch) {
	aggregated := map[string]int{}

	for _, sm := range results {
		matched := sm.Tokens()

		var text string
		switch r.Format {
		case "part":
			text = r.syntagma(sm.Sentence, matched)
		case "word":
			text = words(matched)
		case "aggr":
			aggregated[strings.ToLower(words(matched))]++
			continue
		default:
			text = r.sentence(sm.Sentence, matched)
		}

		fmt.Fprintf(r.W, "%s%s\n", r.prefix(sm), oneLine(text))
	}

	if r.Format == "aggr" {
		r.aggr(aggregated)
	}
}

// Sentence renders the text of s.
func (r *Renderer) Sentence(s sent.Sentence, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, oneLine(r.sentence(s, nil)))
}

// SentenceString returns the text of s with the matches highlighted.
func (r *Renderer) SentenceString(s sent.Sentence, matches []sent.Token) string {
	return oneLine(r.sentence(s, matches))
}

// sentence rebuilds the text of s, coloring the matched tokens. Tokens with
// codepoint offsets are cut from the sentence text, the others are joined
// by their break level.
func (r *Renderer) sentence(s sent.Sentence, matches []sent.Token) string {
	if r.HasColor && len(matches) > 0 && hasSegments(s) {
		return r.highlight(s, matches)
	}

	if hasSegments(s) || len(s.Tokens) == 0 {
		return s.Text
	}

	return r.join(s.Tokens, matches)
}

func hasSegments(s sent.Sentence) bool {
	if len(s.Tokens) == 0 {
		return false
	}
	for _, t := range s.Tokens {
		if !t.HasSegment() {
			return false
		}
	}
	return true
}

// highlight colors the segments of the matched tokens in the sentence text.
func (r *Renderer) highlight(s sent.Sentence, matches []sent.Token) string {
	runes := []rune(s.Text)
	colored := make([]bool, len(runes))
	for _, m := range matches {
		for i := m.Start; i <= m.End && i < len(runes); i++ {
			if i >= 0 {
				colored[i] = true
			}
		}
	}

	var str strings.Builder
	on := false
	for i, c := range runes {
		if colored[i] != on {
			if colored[i] {
				str.WriteString(Green256)
			} else {
				str.WriteString(Off)
			}
			on = colored[i]
		}
		str.WriteRune(c)
	}
	if on {
		str.WriteString(Off)
	}
	return str.String()
}

// join concatenates the words of tokens, separated by a space unless the
// break level says otherwise. Tokens of a multiword token share the same
// segment and are written once.
func (r *Renderer) join(tokens []sent.Token, matches []sent.Token) string {
	var str strings.Builder
	for i, t := range tokens {
		if i > 0 && t.BreakLevel != sent.NoBreak {
			str.WriteByte(' ')
		}
		str.WriteString(colorToken(t, matches, r.HasColor))
	}
	return str.String()
}

func (r *Renderer) syntagma(s sent.Sentence, matches []sent.Token) string {
	// if not matches, we print the whole sentence
	if len(matches) == 0 {
		return r.sentence(s, matches)
	}

	// matches are sorted by index
	firstMatchIndex := matches[0].Index
	lastMatchIndex := matches[len(matches)-1].Index
	lastTokenIndex := len(s.Tokens) - 1

	first := max(firstMatchIndex-partialOffset, 0)
	last := min(lastMatchIndex+partialOffset, lastTokenIndex)

	return r.join(s.Tokens[first:last+1], matches)
}

// words renders only the matched words
func words(matches []sent.Token) string {
	matchedWords := make([]string, 0, len(matches))
	for _, t := range matches {
		matchedWords = append(matchedWords, t.Word)
	}
	return strings.Join(matchedWords, " ")
}

func colorToken(token sent.Token, matches []sent.Token, hasColor bool) string {
	if !hasColor {
		return token.Word
	}

	for _, mt := range matches {
		if mt.Index == token.Index {
			return Green256 + token.Word + Off
		}
	}

	return token.Word
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func (r *Renderer) prefix(sm *match.SentenceMatch) string {
	if !r.HasPrefix {
		return ""
	}

	return fmt.Sprintf("[%s %2d %5d] ✍  ", r.title(sm.DocID), sm.DocID, sm.SentenceIndex)
}

func (r *Renderer) title(docId int) string {
	title := []rune(r.DocNames[docId])
	var part string
	if len(title) <= 20 {
		part = fmt.Sprintf("%-20s", string(title))
	} else {
		part = string(title[:20])
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}
	r.Format = supported[0]
}

func (r *Renderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}

func (r *Renderer) aggr(agls map[string]int) {
	type entry struct {
		NumSent int
		Words   string
	}

	sl := make([]entry, 0, len(agls))
	for w, n := range agls {
		sl = append(sl, entry{n, w})
	}

	// by number of sentences, then shorter first
	sort.SliceStable(sl, func(i, j int) bool {
		if sl[i].NumSent != sl[j].NumSent {
			return sl[i].NumSent > sl[j].NumSent
		}
		if len(sl[i].Words) != len(sl[j].Words) {
			return len(sl[i].Words) < len(sl[j].Words)
		}
		return sl[i].Words < sl[j].Words
	})

	var prefix string
	for _, s := range sl {
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%5d] ✍  ", s.NumSent)
		}

		fmt.Fprintf(r.W, "%s%s\n", prefix, s.Words)
	}
}

// Tokens writes an aligned table of the tokens of s.
func (r *Renderer) Tokens(s sent.Sentence) {
	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "word\tindex\tsegment\thead\tlabel\tcategory\ttag")
	for _, t := range s.Tokens {
		fmt.Fprintf(tw, "%q\t%d\t%d-%d\t%d\t%s\t%s\t%s\n", t.Word, t.Index, t.Start, t.End, t.Head, t.Label, t.Category, t.Tag)
	}
	tw.Flush()
}

// Describe writes a multi-line description of token t of s.
func (r *Renderer) Describe(s sent.Sentence, t sent.Token) {
	fmt.Fprintf(r.W, "#%d %s\n", t.Index, t.Word)

	if t.HasSegment() {
		fmt.Fprintf(r.W, "segment %d-%d %q\n", t.Start, t.End, s.Segment(t))
	}

	if t.Head >= 0 && t.Head < len(s.Tokens) {
		fmt.Fprintf(r.W, "%s to %s [%d]\n", labelOr(t.Label), s.Tokens[t.Head].Word, t.Head)
	} else {
		fmt.Fprintf(r.W, "%s to root\n", labelOr(t.Label))
	}

	if deps, err := sent.ParseDeps(t.Deps); err == nil {
		for _, d := range deps {
			fmt.Fprintf(r.W, "dep %s to %d\n", d.Label, d.Head)
		}
	}

	for _, p := range feature.Parse(t.Tag) {
		fmt.Fprintf(r.W, "%s = %s\n", p.Name, p.Value)
	}

	if t.Category != "" {
		fmt.Fprintf(r.W, "category %s\n", t.Category)
	}

	if name := sent.BreakLevelName(t.BreakLevel); name != "" {
		fmt.Fprintf(r.W, "break %s\n", name)
	}
}

func labelOr(label string) string {
	if label == "" {
		return "?"
	}
	return label
}
