package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revelaction/depnorm/feature"
	sent "github.com/revelaction/depnorm/sentence"
)

const conlluEmpty = "_"

// ConlluRenderer writes assembled sentences back as CoNLL-U.
type ConlluRenderer struct {
	W io.Writer
}

func NewConlluRenderer(w io.Writer) *ConlluRenderer {
	return &ConlluRenderer{W: w}
}

// Render writes one CoNLL-U block per sentence. Token ids are 1-based and
// the root head is 0. The tag attributes are split back into the LEMMA,
// UPOS, XPOS and FEATS columns.
func (r *ConlluRenderer) Render(sentences []sent.Sentence) error {
	bw := bufio.NewWriter(r.W)

	for i, s := range sentences {
		if s.DocID != "" && (i == 0 || sentences[i-1].DocID != s.DocID) {
			fmt.Fprintf(bw, "# newdoc id = %s\n", s.DocID)
		}
		fmt.Fprintf(bw, "# sent_id = %d\n", i+1)
		fmt.Fprintf(bw, "# text = %s\n", oneLine(s.Text))

		for j, t := range s.Tokens {
			noSpace := j+1 < len(s.Tokens) && s.Tokens[j+1].BreakLevel == sent.NoBreak
			bw.WriteString(conlluLine(t, noSpace))
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func conlluLine(t sent.Token, noSpaceAfter bool) string {
	var lemma, upos, xpos string
	var feats []string
	for _, p := range feature.Parse(t.Tag) {
		switch p.Name {
		case feature.NameLemma:
			lemma = p.Value
		case feature.NameUPosTag:
			upos = p.Value
		case feature.NameXPosTag:
			xpos = p.Value
		default:
			feats = append(feats, upperFirst(p.Name)+feature.FeatureSeparator+p.Value)
		}
	}

	head := 0
	if t.Head >= 0 {
		head = t.Head + 1
	}

	var misc []string
	if t.HasSegment() {
		misc = append(misc, fmt.Sprintf("TokenRange=%d:%d", t.Start, t.End+1))
	}
	if noSpaceAfter {
		misc = append(misc, "SpaceAfter=No")
	}

	cols := []string{
		strconv.Itoa(t.Index + 1),
		t.Word,
		orEmpty(lemma),
		orEmpty(upos),
		orEmpty(xpos),
		orEmpty(strings.Join(feats, feature.FeaturesSeparator)),
		strconv.Itoa(head),
		orEmpty(t.Label),
		orEmpty(t.Deps),
		orEmpty(strings.Join(misc, feature.FeaturesSeparator)),
	}
	return strings.Join(cols, "\t")
}

func orEmpty(s string) string {
	if s == "" {
		return conlluEmpty
	}
	return s
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
