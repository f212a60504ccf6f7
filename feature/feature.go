// Package feature flattens morphological attributes into a single tag string
// and reads them back.
//
// A flattened tag lists attributes as
//
//	name: 'upostag' value: 'NOUN' name: 'number' value: 'Sing'
//
// in a fixed order: part-of-speech tag, alternate part-of-speech tag, lemma,
// then the morphological features in input order.
package feature

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	FeaturesSeparator = "|"
	FeatureSeparator  = "="

	NameUPosTag = "upostag"
	NameXPosTag = "xpostag"
	NameLemma   = "lemma"
)

var ErrMalformedFeaturePair = errors.New("malformed feature pair")

var tagPattern = regexp.MustCompile(`name: ["']([^"']+)["'] value: ["']([^"']+)["']`)

// Attrs are the morphological sources of a tag. Empty fields contribute
// nothing.
type Attrs struct {
	UPosTag string
	XPosTag string
	Lemma   string

	// Feats is a `name=value|name=value` feature string
	Feats string
}

// Pair is a single attribute of a tag.
type Pair struct {
	Name  string
	Value string
}

func (p Pair) String() string {
	return "name: '" + p.Name + "' value: '" + p.Value + "'"
}

// Flatten builds the tag string of a.
func Flatten(a Attrs) string {
	var sb strings.Builder

	add := func(p Pair) {
		if p.Value == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.String())
	}

	add(Pair{Name: NameUPosTag, Value: a.UPosTag})
	add(Pair{Name: NameXPosTag, Value: a.XPosTag})
	add(Pair{Name: NameLemma, Value: a.Lemma})

	pairs, _ := Split(a.Feats)
	for _, p := range pairs {
		add(p)
	}

	return sb.String()
}

// Split parses a feature string into its pairs, in input order. Malformed
// segments are skipped and counted.
func Split(feats string) ([]Pair, int) {
	if feats == "" {
		return nil, 0
	}

	segments := strings.Split(feats, FeaturesSeparator)
	pairs := make([]Pair, 0, len(segments))
	malformed := 0
	for _, s := range segments {
		p, err := ParsePair(s)
		if err != nil {
			malformed++
			continue
		}
		pairs = append(pairs, p)
	}

	return pairs, malformed
}

// ParsePair parses one `name=value` segment. The first character of the name
// is lowercased.
func ParsePair(s string) (Pair, error) {
	nameValue := strings.Split(s, FeatureSeparator)
	if len(nameValue) != 2 {
		return Pair{}, fmt.Errorf("%q: %w", s, ErrMalformedFeaturePair)
	}

	name := nameValue[0]
	if name == "" {
		return Pair{}, fmt.Errorf("%q has no name: %w", s, ErrMalformedFeaturePair)
	}

	return Pair{Name: lowerFirst(name), Value: nameValue[1]}, nil
}

// Parse reads the pairs of a flattened tag.
func Parse(tag string) []Pair {
	var pairs []Pair
	for _, m := range tagPattern.FindAllStringSubmatch(tag, -1) {
		pairs = append(pairs, Pair{Name: m[1], Value: m[2]})
	}
	return pairs
}

// Map reads a flattened tag into a map. Later duplicates win.
func Map(tag string) map[string]string {
	m := map[string]string{}
	for _, p := range Parse(tag) {
		m[p.Name] = p.Value
	}
	return m
}

func lowerFirst(s string) string {
	r, w := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[w:]
}
