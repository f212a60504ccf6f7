package assemble

import (
	"fmt"

	"github.com/revelaction/depnorm/charindex"
	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/sentence"
)

// Sentence assembles the record set rs, the index-th of its batch. In
// segmented mode token offsets are relative to the whole input and are
// rebased on the first token.
func (a *Assembler) Sentence(rs raw.Sentence, index int, segmented bool) (sentence.Sentence, error) {
	if len(rs) <= 1 {
		return sentence.Sentence{}, fmt.Errorf("sentence %d: %d records: %w", index, len(rs), ErrEmptySentence)
	}

	meta := rs.Meta()
	if !meta.Text.Valid {
		return sentence.Sentence{}, fmt.Errorf("sentence %d: field %q: %w", index, raw.FieldText, ErrMissingRequiredField)
	}

	x := charindex.New(meta.Text.Value)

	start, err := x.Char(meta.Start.Int(charindex.Unknown))
	if err != nil {
		return sentence.Sentence{}, fmt.Errorf("sentence %d: field %q: %w", index, raw.FieldStart, err)
	}
	end, err := x.Char(meta.End.Int(charindex.Unknown))
	if err != nil {
		return sentence.Sentence{}, fmt.Errorf("sentence %d: field %q: %w", index, raw.FieldEnd, err)
	}

	records := rs.Tokens()

	base := charindex.Unknown
	if segmented {
		base = records[0].Start.Int(charindex.Unknown)
		if base < charindex.Unknown {
			return sentence.Sentence{}, fmt.Errorf("%s: field %q: byte offset %d: %w", position{sentence: index, count: len(records)}, raw.FieldStart, base, ErrOffsetOutOfRange)
		}
	}

	tokens := make([]sentence.Token, 0, len(records))
	for i, rt := range records {
		pos := position{sentence: index, token: i, count: len(records)}
		t, err := a.token(rt, pos, x, base)
		if err != nil {
			return sentence.Sentence{}, err
		}
		tokens = append(tokens, t)
	}

	a.logger.Debug("sentence", "index", index, "tokens", len(tokens), "chars", x.Count())

	return sentence.Sentence{
		Text:   meta.Text.Value,
		Start:  start,
		End:    end,
		Tokens: tokens,
		DocID:  meta.DocID.Or(""),
	}, nil
}
