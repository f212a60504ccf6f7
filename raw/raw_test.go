package raw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldInt(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  int
	}{
		{"absent", Field{}, -1},
		{"number", Some("42"), 42},
		{"negative", Some("-1"), -1},
		{"zero", Some("0"), 0},
		{"garbage", Some("12abc"), -1},
		{"empty", Some(""), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Int(-1))
		})
	}
}

func TestFieldOr(t *testing.T) {
	assert.Equal(t, "x", Field{}.Or("x"))
	assert.Equal(t, "", Some("").Or("x"))
	assert.Equal(t, "v", Some("v").Or("x"))
}

func TestFromMap(t *testing.T) {
	tk := FromMap(map[string]string{
		"word":    "dogs",
		"lemma":   "dog",
		"head":    "2",
		"label":   "",
		"unknown": "ignored",
	})

	assert.Equal(t, Some("dogs"), tk.Word)
	assert.Equal(t, Some("dog"), tk.Lemma)
	assert.Equal(t, Some(""), tk.Label)
	assert.False(t, tk.Category.Valid)
	assert.True(t, tk.HasMorphology())

	assert.Equal(t, map[string]string{"word": "dogs", "lemma": "dog", "head": "2", "label": ""}, tk.Map())
}

func TestMapsSource(t *testing.T) {
	src := Maps{
		{{"text": "Hi."}, {"word": "Hi"}, {"word": "."}},
		{{"text": "Yo"}},
	}
	sentences, err := src.Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, "Hi.", sentences[0].Meta().Text.Value)
	assert.Len(t, sentences[0].Tokens(), 2)
	assert.Empty(t, sentences[1].Tokens())
}

func TestJSONSourceRoundTrip(t *testing.T) {
	in := `[[{"text":"Hi there","docid":"d1"},{"word":"Hi","start":"0","end":"2"},{"word":"there","tag":"x"}]]`
	sentences, err := JSONSource{R: strings.NewReader(in)}.Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Equal(t, Some("d1"), sentences[0].Meta().DocID)
	assert.Equal(t, Some("x"), sentences[0][2].Tag)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sentences))

	again, err := JSONSource{R: &buf}.Sentences()
	require.NoError(t, err)
	assert.Equal(t, sentences, again)
}

func TestJSONSourceInvalid(t *testing.T) {
	_, err := JSONSource{R: strings.NewReader(`[[{"word": 3}]]`)}.Sentences()
	require.Error(t, err)
}

const conllu = `# newdoc id = doc-1
# text = Vámonos al mar.
1-2	Vámonos	_	_	_	_	_	_	_	_
1	Vamos	ir	VERB	_	Mood=Imp|Number=Plur	0	root	_	_
2	nos	nosotros	PRON	_	Case=Acc	1	obj	_	_
3-4	al	_	_	_	_	_	_	_	_
3	a	a	ADP	_	_	5	case	_	_
4	el	el	DET	_	_	5	det	_	_
5	mar	mar	NOUN	_	_	1	obl	_	SpaceAfter=No
6	.	.	PUNCT	_	_	1	punct	_	_

# text = Sí.
1	Sí	sí	ADV	_	_	0	root	_	SpaceAfter=No
2	.	.	PUNCT	_	_	1	punct	_	_
`

func TestConlluSource(t *testing.T) {
	sentences, err := (&ConlluSource{R: strings.NewReader(conllu)}).Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	s := sentences[0]
	assert.Equal(t, Some("Vámonos al mar."), s.Meta().Text)
	assert.Equal(t, Some("doc-1"), s.Meta().DocID)
	require.Len(t, s.Tokens(), 6)

	vamos := s[1]
	assert.Equal(t, Some("Vamos"), vamos.Word)
	assert.Equal(t, Some("0"), vamos.Head)
	assert.Equal(t, Some("root"), vamos.Label)
	assert.Equal(t, Some("Mood=Imp|Number=Plur"), vamos.Feats)
	assert.False(t, vamos.XPosTag.Valid)
	// surface span of the multiword token, in bytes
	assert.Equal(t, Some("0"), vamos.Start)
	assert.Equal(t, Some("8"), vamos.End)
	assert.Equal(t, Some(breakSentence), vamos.BreakLevel)

	nos := s[2]
	assert.Equal(t, Some("0"), nos.Start)
	assert.Equal(t, Some(breakNone), nos.BreakLevel)

	a := s[3]
	assert.Equal(t, Some("9"), a.Start)
	assert.Equal(t, Some("11"), a.End)
	assert.Equal(t, Some(breakSpace), a.BreakLevel)

	dot := s[6]
	assert.Equal(t, Some("15"), dot.Start)
	assert.Equal(t, Some("16"), dot.End)
	assert.Equal(t, Some(breakNone), dot.BreakLevel)

	// doc id carries over
	assert.Equal(t, Some("doc-1"), sentences[1].Meta().DocID)
}

func TestConlluSourceWithoutText(t *testing.T) {
	in := "1\tHello\thello\tINTJ\t_\t_\t0\troot\t_\tSpaceAfter=No\n2\t!\t!\tPUNCT\t_\t_\t1\tpunct\t_\t_\n"
	sentences, err := (&ConlluSource{R: strings.NewReader(in)}).Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Equal(t, Some("Hello!"), sentences[0].Meta().Text)
	assert.False(t, sentences[0].Meta().DocID.Valid)
	assert.Equal(t, Some("5"), sentences[0][2].Start)
}

func TestConlluSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short row", "1\tHello\n"},
		{"bad id", "x\tHello\t_\t_\t_\t_\t_\t_\t_\t_\n"},
		{"bad range", "3-1\tHello\t_\t_\t_\t_\t_\t_\t_\t_\n"},
		{"range without words", "1-2\tdel\t_\t_\t_\t_\t_\t_\t_\t_\n"},
		{"range before blank line", "1-2\tdel\t_\t_\t_\t_\t_\t_\t_\t_\n\n"},
		{"range before outside word", "1-2\tdel\t_\t_\t_\t_\t_\t_\t_\t_\n3\tx\t_\t_\t_\t_\t0\troot\t_\t_\n"},
		{"range before next range", "1-2\tdel\t_\t_\t_\t_\t_\t_\t_\t_\n3-4\tal\t_\t_\t_\t_\t_\t_\t_\t_\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ConlluSource{R: strings.NewReader(tt.in)}).Sentences()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestConlluSourceSkipsEmptyNodes(t *testing.T) {
	in := "# text = a b\n1\ta\t_\t_\t_\t_\t0\troot\t_\t_\n1.1\tx\t_\t_\t_\t_\t_\t_\t_\t_\n2\tb\t_\t_\t_\t_\t1\tdep\t_\t_\n"
	sentences, err := (&ConlluSource{R: strings.NewReader(in)}).Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Len(t, sentences[0].Tokens(), 2)
}

func TestConlluSourceInputOffsets(t *testing.T) {
	input := "Hi. Bye now."
	in := "# text = Hi.\n1\tHi\t_\t_\t_\t_\t0\troot\t_\tSpaceAfter=No\n2\t.\t_\t_\t_\t_\t1\tpunct\t_\t_\n\n" +
		"# text = Bye now.\n1\tBye\t_\t_\t_\t_\t0\troot\t_\t_\n2\tnow\t_\t_\t_\t_\t1\tadvmod\t_\tSpaceAfter=No\n3\t.\t_\t_\t_\t_\t1\tpunct\t_\t_\n"

	sentences, err := (&ConlluSource{R: strings.NewReader(in), Input: input}).Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	second := sentences[1]
	assert.Equal(t, Some("Bye now."), second.Meta().Text)
	assert.Equal(t, Some("4"), second[1].Start)
	assert.Equal(t, Some("7"), second[1].End)
	assert.Equal(t, Some("11"), second[3].Start)
}

func TestConlluSourceTexts(t *testing.T) {
	in := "# text = a b\n1\ta\t_\t_\t_\t_\t0\troot\t_\t_\n2\tb\t_\t_\t_\t_\t1\tdep\t_\t_\n\n" +
		"# text = c\n1\tc\t_\t_\t_\t_\t0\troot\t_\t_\n"

	sentences, err := (&ConlluSource{R: strings.NewReader(in), Texts: []string{"a   b"}}).Sentences()
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	first := sentences[0]
	assert.Equal(t, Some("a   b"), first.Meta().Text)
	assert.Equal(t, Some("4"), first[2].Start)
	assert.Equal(t, Some("5"), first[2].End)

	// past Texts the comment is used
	assert.Equal(t, Some("c"), sentences[1].Meta().Text)
}
