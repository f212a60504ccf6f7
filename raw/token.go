// Package raw holds the loosely typed parser output: one record per token,
// the first record of a sentence carrying sentence metadata.
package raw

import (
	"encoding/json"
	"strconv"
)

// Raw field names as emitted by the parsers.
const (
	FieldText       = "text"
	FieldDocID      = "docid"
	FieldWord       = "word"
	FieldCategory   = "category"
	FieldUPosTag    = "upostag"
	FieldXPosTag    = "xpostag"
	FieldLemma      = "lemma"
	FieldFeats      = "feats"
	FieldTag        = "tag"
	FieldHead       = "head"
	FieldLabel      = "label"
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldBreakLevel = "breaklevel"
	FieldDeps       = "deps"
)

// Field is an optional string value. An absent field is not the same as an
// empty one.
type Field struct {
	Value string
	Valid bool
}

// Some returns a present field.
func Some(v string) Field {
	return Field{Value: v, Valid: true}
}

// Or returns the value, or def if the field is absent.
func (f Field) Or(def string) string {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Int parses the value as a base 10 integer. def is returned if the field is
// absent or not a number.
func (f Field) Int(def int) int {
	if !f.Valid {
		return def
	}
	i, err := strconv.Atoi(f.Value)
	if err != nil {
		return def
	}
	return i
}

// Token is a typed parser record. The first token of a Sentence uses only
// Text, DocID, Start and End.
type Token struct {
	Text  Field
	DocID Field

	Word     Field
	Category Field

	UPosTag Field
	XPosTag Field
	Lemma   Field
	Feats   Field
	Tag     Field

	Head  Field
	Label Field

	// byte offsets as given by the parser
	Start Field
	End   Field

	BreakLevel Field
	Deps       Field
}

// fields binds raw names to the fields of t.
func (t *Token) fields() map[string]*Field {
	return map[string]*Field{
		FieldText:       &t.Text,
		FieldDocID:      &t.DocID,
		FieldWord:       &t.Word,
		FieldCategory:   &t.Category,
		FieldUPosTag:    &t.UPosTag,
		FieldXPosTag:    &t.XPosTag,
		FieldLemma:      &t.Lemma,
		FieldFeats:      &t.Feats,
		FieldTag:        &t.Tag,
		FieldHead:       &t.Head,
		FieldLabel:      &t.Label,
		FieldStart:      &t.Start,
		FieldEnd:        &t.End,
		FieldBreakLevel: &t.BreakLevel,
		FieldDeps:       &t.Deps,
	}
}

// FromMap converts a string keyed record. Unknown keys are ignored.
func FromMap(m map[string]string) Token {
	var t Token
	fields := t.fields()
	for k, v := range m {
		if f, ok := fields[k]; ok {
			*f = Some(v)
		}
	}
	return t
}

// Map returns the present fields of t keyed by raw name.
func (t Token) Map() map[string]string {
	m := map[string]string{}
	for k, f := range t.fields() {
		if f.Valid {
			m[k] = f.Value
		}
	}
	return m
}

// HasMorphology reports whether any source of a flattened tag is present.
func (t Token) HasMorphology() bool {
	return t.UPosTag.Valid || t.XPosTag.Valid || t.Lemma.Valid || t.Feats.Valid
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = FromMap(m)
	return nil
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// Sentence is the record set of one parsed sentence: metadata first, then the
// real tokens.
type Sentence []Token

// Meta returns the sentence metadata record. It panics on an empty Sentence.
func (s Sentence) Meta() Token {
	return s[0]
}

// Tokens returns the real tokens, without the metadata record.
func (s Sentence) Tokens() []Token {
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}
