package raw

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CoNLL-U layout, see https://universaldependencies.org/format.html
const (
	conlluFieldSeparator = "\t"
	conlluNumFields      = 10
	conlluEmpty          = "_"

	conlluTextComment   = "# text = "
	conlluNewDocComment = "# newdoc"
	conlluDocIDPrefix   = "id = "

	spaceAfterNo = "SpaceAfter=No"
)

// Break levels written by the CoNLL-U reader.
const (
	breakNone     = "0"
	breakSpace    = "1"
	breakSentence = "3"
)

// ConlluSource reads CoNLL-U parser output. Each sentence becomes one record
// set: the metadata record takes its text from the `# text =` comment and its
// document id from the last `# newdoc id =` comment. Token byte offsets are
// located by scanning the surface forms in the sentence text; the end offset
// is exclusive.
//
// If Input is set, offsets are located in Input instead of the sentence text,
// continuing from the previous sentence: the parser split Input itself.
//
// If Texts is set, the i-th sentence takes its text from Texts[i] instead of
// the comment, and its offsets are located there.
type ConlluSource struct {
	R     io.Reader
	Input string
	Texts []string

	docID  string
	line   int
	cursor int
	count  int
}

// conlluWord is a syntactic word row.
type conlluWord struct {
	form    string
	lemma   string
	upostag string
	xpostag string
	feats   string
	head    string
	deprel  string
	deps    string
	misc    string
}

// conlluUnit is a surface token: one word, or a multiword range and the words
// it covers.
type conlluUnit struct {
	form string
	misc string

	// word id range of a multiword token, zero for a single word
	from, to int

	// line of the range row
	line int

	words []conlluWord
}

func (u conlluUnit) spaceAfter() bool {
	for _, m := range strings.Split(u.misc, "|") {
		if m == spaceAfterNo {
			return false
		}
	}
	return true
}

type conlluSentence struct {
	text    string
	hasText bool
	units   []conlluUnit
}

func (c *ConlluSource) Sentences() ([]Sentence, error) {
	var sentences []Sentence

	scanner := bufio.NewScanner(c.R)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	current := &conlluSentence{}
	flush := func() {
		if len(current.units) > 0 {
			sentences = append(sentences, c.records(current))
		}
		current = &conlluSentence{}
	}

	for scanner.Scan() {
		c.line++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if err := current.checkRange(); err != nil {
				return nil, err
			}
			flush()
			continue
		}

		if strings.HasPrefix(line, "#") {
			c.comment(line, current)
			continue
		}

		if err := c.row(line, current); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	if err := current.checkRange(); err != nil {
		return nil, err
	}
	flush()
	return sentences, nil
}

func (c *ConlluSource) comment(line string, s *conlluSentence) {
	switch {
	case strings.HasPrefix(line, conlluTextComment):
		s.text = strings.TrimPrefix(line, conlluTextComment)
		s.hasText = true
	case strings.HasPrefix(line, conlluNewDocComment):
		rest := strings.TrimSpace(strings.TrimPrefix(line, conlluNewDocComment))
		c.docID = strings.TrimPrefix(rest, conlluDocIDPrefix)
	}
}

func (c *ConlluSource) row(line string, s *conlluSentence) error {
	record := strings.Split(line, conlluFieldSeparator)
	if len(record) != conlluNumFields {
		return fmt.Errorf("line %d: expected %d fields, got %d", c.line, conlluNumFields, len(record))
	}

	id := record[0]

	// empty nodes
	if strings.Contains(id, ".") {
		return nil
	}

	if strings.Contains(id, "-") {
		ids := strings.Split(id, "-")
		if len(ids) != 2 {
			return fmt.Errorf("line %d: invalid ID range %q", c.line, id)
		}
		from, err := strconv.Atoi(ids[0])
		if err != nil {
			return fmt.Errorf("line %d: invalid ID range %q: %w", c.line, id, err)
		}
		to, err := strconv.Atoi(ids[1])
		if err != nil {
			return fmt.Errorf("line %d: invalid ID range %q: %w", c.line, id, err)
		}
		if to <= from {
			return fmt.Errorf("line %d: invalid ID range %q", c.line, id)
		}
		if err := s.checkRange(); err != nil {
			return err
		}
		s.units = append(s.units, conlluUnit{form: record[1], misc: record[9], from: from, to: to, line: c.line})
		return nil
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("line %d: invalid ID %q: %w", c.line, id, err)
	}

	w := conlluWord{
		form:    record[1],
		lemma:   record[2],
		upostag: record[3],
		xpostag: record[4],
		feats:   record[5],
		head:    record[6],
		deprel:  record[7],
		deps:    record[8],
		misc:    record[9],
	}

	// inside a multiword range
	if last := len(s.units) - 1; last >= 0 && s.units[last].to > 0 {
		if u := &s.units[last]; n >= u.from && n <= u.to {
			u.words = append(u.words, w)
			return nil
		}
	}

	if err := s.checkRange(); err != nil {
		return err
	}
	s.units = append(s.units, conlluUnit{form: w.form, misc: w.misc, words: []conlluWord{w}})
	return nil
}

// checkRange fails if the last unit is a multiword range without words.
func (s *conlluSentence) checkRange() error {
	last := len(s.units) - 1
	if last < 0 {
		return nil
	}
	if u := s.units[last]; u.to > 0 && len(u.words) == 0 {
		return fmt.Errorf("line %d: ID range %d-%d has no words", u.line, u.from, u.to)
	}
	return nil
}

// records converts a collected sentence to a record set.
func (c *ConlluSource) records(s *conlluSentence) Sentence {
	text := s.text
	switch {
	case c.count < len(c.Texts):
		text = c.Texts[c.count]
	case !s.hasText:
		text = surfaceText(s.units)
	}
	c.count++

	meta := Token{Text: Some(text)}
	if c.docID != "" {
		meta.DocID = Some(c.docID)
	}
	records := Sentence{meta}

	scanned, cursor := text, 0
	if c.Input != "" {
		scanned, cursor = c.Input, c.cursor
	}

	for i, u := range s.units {
		var start, end Field
		if idx := strings.Index(scanned[cursor:], u.form); u.form != "" && idx >= 0 {
			b := cursor + idx
			start = Some(strconv.Itoa(b))
			end = Some(strconv.Itoa(b + len(u.form)))
			cursor = b + len(u.form)
		}

		for j, w := range u.words {
			t := Token{
				Word:    Some(w.form),
				UPosTag: optional(w.upostag),
				XPosTag: optional(w.xpostag),
				Lemma:   optional(w.lemma),
				Feats:   optional(w.feats),
				Head:    optional(w.head),
				Label:   optional(w.deprel),
				Deps:    optional(w.deps),
				Start:   start,
				End:     end,
			}

			switch {
			case i == 0 && j == 0:
				t.BreakLevel = Some(breakSentence)
			case j > 0:
				t.BreakLevel = Some(breakNone)
			case !s.units[i-1].spaceAfter():
				t.BreakLevel = Some(breakNone)
			default:
				t.BreakLevel = Some(breakSpace)
			}

			records = append(records, t)
		}
	}

	c.cursor = cursor
	return records
}

// surfaceText rebuilds a sentence text from its surface tokens.
func surfaceText(units []conlluUnit) string {
	var sb strings.Builder
	for i, u := range units {
		sb.WriteString(u.form)
		if i < len(units)-1 && u.spaceAfter() {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func optional(v string) Field {
	if v == conlluEmpty || v == "" {
		return Field{}
	}
	return Some(v)
}
