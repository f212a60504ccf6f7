package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/revelaction/depnorm/feature"
)

const (
	labelPrefix    = "@"
	valueSeparator = "|"
)

type Kind int

const (
	// Word matches the token word, case insensitive.
	Word Kind = iota
	// Attr matches an attribute of the flattened tag.
	Attr
	// Label matches the dependency label.
	Label
)

// Item is one token condition of an expression.
type Item struct {
	Kind Kind `json:"kind"`

	// Name of the tag attribute, Attr only
	Name string `json:"name,omitempty"`

	// Values are alternatives, any of them matches.
	Values []string `json:"values"`

	// Near is the maximum distance to the token matched by the previous
	// item. Zero means the item matches anywhere in the sentence.
	Near int `json:"near,omitempty"`
}

func (it Item) String() string {
	v := strings.Join(it.Values, valueSeparator)
	switch it.Kind {
	case Attr:
		return it.Name + feature.FeatureSeparator + v
	case Label:
		return labelPrefix + v
	}
	return v
}

// Expr is a parsed expression, a sequence of items.
type Expr []Item

func (e Expr) String() string {
	sl := []string{}
	for _, item := range e {
		if item.Near > 0 {
			sl = append(sl, strconv.Itoa(item.Near))
		}
		sl = append(sl, item.String())
	}
	return strings.Join(sl, " ")
}

// Words returns the unique single valued words of the expression, usable
// for indexed candidate retrieval.
func (e Expr) Words() []string {
	seen := map[string]bool{}
	var words []string
	for _, item := range e {
		if item.Kind != Word || len(item.Values) != 1 {
			continue
		}
		w := item.Values[0]
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

// Parse parses the user input and converts it to an Expr. Arguments may hold
// several space separated items:
//
//	cuando 3 upostag=VERB @obj
//
// A number is the maximum distance of the next item to the previous one.
func Parse(args []string) (Expr, error) {
	var fields []string
	for _, arg := range args {
		fields = append(fields, strings.Fields(arg)...)
	}

	if len(fields) == 0 {
		return nil, errors.New("empty expression")
	}

	var expr Expr
	isLastInt := false
	near := 0
	for idx, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			if idx == 0 {
				return nil, errors.New("first expression argument can not be a number")
			}
			if isLastInt {
				return nil, errors.New("can not parse two consecutive numbers in the expression")
			}
			if n <= 0 {
				return nil, fmt.Errorf("distance must be positive: %d", n)
			}
			near = n
			isLastInt = true
			continue
		}

		item, err := parseItem(f)
		if err != nil {
			return nil, err
		}
		item.Near = near
		expr = append(expr, item)

		near = 0
		isLastInt = false
	}

	if isLastInt {
		return nil, errors.New("expression can not end with a number")
	}

	return expr, nil
}

func parseItem(s string) (Item, error) {
	if strings.HasPrefix(s, labelPrefix) {
		values, err := splitValues(strings.TrimPrefix(s, labelPrefix), s)
		if err != nil {
			return Item{}, err
		}
		return Item{Kind: Label, Values: values}, nil
	}

	if strings.Contains(s, feature.FeatureSeparator) {
		p, err := feature.ParsePair(s)
		if err != nil {
			return Item{}, err
		}
		values, err := splitValues(p.Value, s)
		if err != nil {
			return Item{}, err
		}
		return Item{Kind: Attr, Name: p.Name, Values: values}, nil
	}

	values, err := splitValues(strings.ToLower(s), s)
	if err != nil {
		return Item{}, err
	}
	return Item{Kind: Word, Values: values}, nil
}

func splitValues(v, item string) ([]string, error) {
	values := strings.Split(v, valueSeparator)
	for _, value := range values {
		if value == "" {
			return nil, fmt.Errorf("empty value in %q", item)
		}
	}
	return values, nil
}
