package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attrs
		want  string
	}{
		{
			name:  "feats only",
			attrs: Attrs{Feats: "Case=Nom|Number=Sing"},
			want:  "name: 'case' value: 'Nom' name: 'number' value: 'Sing'",
		},
		{
			name:  "empty",
			attrs: Attrs{},
			want:  "",
		},
		{
			name:  "fixed order",
			attrs: Attrs{Feats: "Number=Plur", Lemma: "dog", XPosTag: "NNS", UPosTag: "NOUN"},
			want:  "name: 'upostag' value: 'NOUN' name: 'xpostag' value: 'NNS' name: 'lemma' value: 'dog' name: 'number' value: 'Plur'",
		},
		{
			name:  "skip empty sources",
			attrs: Attrs{UPosTag: "VERB", Lemma: "", Feats: ""},
			want:  "name: 'upostag' value: 'VERB'",
		},
		{
			name:  "only first letter lowercased",
			attrs: Attrs{Feats: "PronType=Prs|VerbForm=Fin"},
			want:  "name: 'pronType' value: 'Prs' name: 'verbForm' value: 'Fin'",
		},
		{
			name:  "malformed pairs skipped",
			attrs: Attrs{Feats: "Case=Nom|broken|A=b=c|=x|Number=Sing"},
			want:  "name: 'case' value: 'Nom' name: 'number' value: 'Sing'",
		},
		{
			name:  "empty feature value skipped",
			attrs: Attrs{Feats: "Case=|Number=Sing"},
			want:  "name: 'number' value: 'Sing'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.attrs))
		})
	}
}

func TestFlattenDeterministic(t *testing.T) {
	a := Attrs{UPosTag: "NOUN", Feats: "Gender=Fem|Number=Sing|Case=Acc"}
	first := Flatten(a)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Flatten(a))
	}
}

func TestSplit(t *testing.T) {
	pairs, malformed := Split("Case=Nom|oops|Number=Sing")
	require.Equal(t, 1, malformed)
	require.Equal(t, []Pair{{Name: "case", Value: "Nom"}, {Name: "number", Value: "Sing"}}, pairs)

	pairs, malformed = Split("")
	assert.Nil(t, pairs)
	assert.Zero(t, malformed)
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("Ärger=Viel")
	require.NoError(t, err)
	assert.Equal(t, Pair{Name: "ärger", Value: "Viel"}, p)

	for _, s := range []string{"", "NoSeparator", "a=b=c", "=value"} {
		_, err := ParsePair(s)
		require.Error(t, err, "segment %q", s)
		assert.True(t, errors.Is(err, ErrMalformedFeaturePair))
	}
}

func TestParse(t *testing.T) {
	tag := Flatten(Attrs{UPosTag: "NOUN", Lemma: "cat", Feats: "Number=Sing"})
	got := Parse(tag)
	assert.Equal(t, []Pair{
		{Name: "upostag", Value: "NOUN"},
		{Name: "lemma", Value: "cat"},
		{Name: "number", Value: "Sing"},
	}, got)

	m := Map(`name: "upostag" value: "VERB" name: 'tense' value: 'Past'`)
	assert.Equal(t, map[string]string{"upostag": "VERB", "tense": "Past"}, m)

	assert.Empty(t, Parse(""))
}
