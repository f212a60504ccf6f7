package raw

import (
	"encoding/json"
	"fmt"
	"io"
)

// Source yields parser record sets, in parser order.
type Source interface {
	Sentences() ([]Sentence, error)
}

// Maps is a Source of string keyed records.
type Maps [][]map[string]string

func (m Maps) Sentences() ([]Sentence, error) {
	sentences := make([]Sentence, 0, len(m))
	for _, records := range m {
		s := make(Sentence, 0, len(records))
		for _, r := range records {
			s = append(s, FromMap(r))
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

// JSONSource reads a JSON array of record sets, each record an object of
// string values.
type JSONSource struct {
	R io.Reader
}

func (j JSONSource) Sentences() ([]Sentence, error) {
	var sentences []Sentence
	if err := json.NewDecoder(j.R).Decode(&sentences); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}
	return sentences, nil
}

// WriteJSON writes record sets in the format read by JSONSource.
func WriteJSON(w io.Writer, sentences []Sentence) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sentences)
}

// compile-time interface check
var (
	_ Source = Maps(nil)
	_ Source = JSONSource{}
	_ Source = (*ConlluSource)(nil)
)
