package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/depnorm/match"
	sent "github.com/revelaction/depnorm/sentence"
)

// JSONRenderer writes sentences and matches as JSON to a writer.
type JSONRenderer struct {
	W io.Writer

	// Indent pretty prints the output
	Indent bool
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes assembled sentences as a JSON array. A nil slice is
// written as an empty array.
func (r *JSONRenderer) Render(sentences []sent.Sentence) error {
	if sentences == nil {
		sentences = []sent.Sentence{}
	}
	return r.encoder().Encode(sentences)
}

// RenderMatches serializes sentence match results as a JSON array.
func (r *JSONRenderer) RenderMatches(results []*match.SentenceMatch) error {
	if results == nil {
		results = []*match.SentenceMatch{}
	}
	return r.encoder().Encode(results)
}

func (r *JSONRenderer) encoder() *json.Encoder {
	enc := json.NewEncoder(r.W)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc
}
