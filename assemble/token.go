package assemble

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/revelaction/depnorm/charindex"
	"github.com/revelaction/depnorm/feature"
	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/sentence"
)

// position of a token being normalized
type position struct {
	sentence int
	token    int
	// number of real tokens in the sentence
	count int
}

func (p position) String() string {
	return fmt.Sprintf("sentence %d token %d", p.sentence, p.token)
}

// token normalizes one real token. base is the raw start of the first token
// of a segmented sentence, -1 otherwise.
func (a *Assembler) token(rt raw.Token, pos position, x charindex.Index, base int) (sentence.Token, error) {
	if !rt.Word.Valid {
		return sentence.Token{}, fmt.Errorf("%s: field %q: %w", pos, raw.FieldWord, ErrMissingRequiredField)
	}

	start, end, err := a.offsets(rt, x, base)
	if err != nil {
		return sentence.Token{}, fmt.Errorf("%s: %w", pos, err)
	}

	t := sentence.Token{
		SentenceIndex: pos.sentence,
		Index:         pos.token,
		Word:          rt.Word.Value,
		Start:         start,
		End:           end,
		Category:      rt.Category.Or(""),
		Tag:           a.tag(rt, pos),
		Head:          a.head(rt, pos),
		Label:         rt.Label.Or(""),
		BreakLevel:    rt.BreakLevel.Int(-1),
		Deps:          rt.Deps.Or(""),
	}

	a.logger.Debug("token",
		"sentence", t.SentenceIndex,
		"index", t.Index,
		"word", t.Word,
		"start", t.Start,
		"end", t.End,
		"head", t.Head,
		"label", t.Label,
	)

	return t, nil
}

func (a *Assembler) tag(rt raw.Token, pos position) string {
	if !rt.HasMorphology() {
		return rt.Tag.Or("")
	}

	feats := rt.Feats.Or("")
	if a.logger.Enabled(context.Background(), slog.LevelDebug) {
		if _, malformed := feature.Split(feats); malformed > 0 {
			a.logger.Debug("skipped malformed features", "at", pos.String(), "feats", feats, "count", malformed)
		}
	}

	return feature.Flatten(feature.Attrs{
		UPosTag: rt.UPosTag.Or(""),
		XPosTag: rt.XPosTag.Or(""),
		Lemma:   rt.Lemma.Or(""),
		Feats:   feats,
	})
}

func (a *Assembler) head(rt raw.Token, pos position) int {
	h := rt.Head.Int(-1)

	if a.conv.Heads == OneBased {
		switch {
		case h > 0:
			h--
		case h == 0:
			h = -1
		}
	}

	if h < -1 || h >= pos.count {
		a.logger.Debug("head out of range", "at", pos.String(), "head", rt.Head.Value, "tokens", pos.count)
		return -1
	}

	return h
}

// offsets returns the codepoint start and inclusive end of rt.
func (a *Assembler) offsets(rt raw.Token, x charindex.Index, base int) (int, int, error) {
	start, err := a.offset(rt.Start, raw.FieldStart, x, base, false)
	if err != nil {
		return 0, 0, err
	}
	end, err := a.offset(rt.End, raw.FieldEnd, x, base, a.conv.EndExclusive)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (a *Assembler) offset(f raw.Field, name string, x charindex.Index, base int, exclusive bool) (int, error) {
	b := f.Int(charindex.Unknown)
	if b == charindex.Unknown {
		return charindex.Unknown, nil
	}

	if b < 0 {
		return 0, fmt.Errorf("field %q: byte offset %d: %w", name, b, ErrOffsetOutOfRange)
	}

	if base != charindex.Unknown {
		b -= base
	}
	if exclusive {
		b--
	}

	if b < 0 {
		return 0, fmt.Errorf("field %q: byte offset %s gives %d: %w", name, f.Value, b, ErrOffsetOutOfRange)
	}

	c, err := x.Char(b)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return c, nil
}
