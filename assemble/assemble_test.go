package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/depnorm/raw"
	"github.com/revelaction/depnorm/sentence"
)

func maps(records ...map[string]string) raw.Sentence {
	s := make(raw.Sentence, 0, len(records))
	for _, r := range records {
		s = append(s, raw.FromMap(r))
	}
	return s
}

// one-based heads, exclusive ends
func udpipeFixture() raw.Sentence {
	return maps(
		map[string]string{"text": "Él come.", "docid": "d7"},
		map[string]string{"word": "Él", "start": "0", "end": "3", "head": "2", "label": "nsubj", "upostag": "PRON", "feats": "Case=Nom|Number=Sing", "breaklevel": "3"},
		map[string]string{"word": "come", "start": "4", "end": "8", "head": "0", "label": "root", "upostag": "VERB", "lemma": "comer", "breaklevel": "1"},
		map[string]string{"word": ".", "start": "8", "end": "9", "head": "2", "label": "punct", "breaklevel": "0"},
	)
}

// zero-based heads, inclusive ends
func syntaxnetFixture() raw.Sentence {
	return maps(
		map[string]string{"text": "I run"},
		map[string]string{"word": "I", "start": "0", "end": "0", "head": "1", "label": "nsubj", "category": "PRON", "tag": "attribute { name: 'Case' value: 'Nom' }"},
		map[string]string{"word": "run", "start": "2", "end": "4", "head": "-1", "label": "ROOT", "category": "VERB"},
	)
}

func TestSentenceOneBasedHeads(t *testing.T) {
	s, err := New(UDPipe).Sentence(udpipeFixture(), 4, false)
	require.NoError(t, err)

	assert.Equal(t, "Él come.", s.Text)
	assert.Equal(t, "d7", s.DocID)
	assert.Equal(t, -1, s.Start)
	assert.Equal(t, -1, s.End)

	want := []sentence.Token{
		{SentenceIndex: 4, Index: 0, Word: "Él", Start: 0, End: 1, Head: 1, Label: "nsubj", BreakLevel: 3,
			Tag: "name: 'upostag' value: 'PRON' name: 'case' value: 'Nom' name: 'number' value: 'Sing'"},
		{SentenceIndex: 4, Index: 1, Word: "come", Start: 3, End: 6, Head: -1, Label: "root", BreakLevel: 1,
			Tag: "name: 'upostag' value: 'VERB' name: 'lemma' value: 'comer'"},
		{SentenceIndex: 4, Index: 2, Word: ".", Start: 7, End: 7, Head: 1, Label: "punct", BreakLevel: 0},
	}
	assert.Equal(t, want, s.Tokens)

	for _, tk := range s.Tokens {
		assert.Equal(t, tk.Word, s.Segment(tk))
	}
}

func TestSentenceZeroBasedHeads(t *testing.T) {
	s, err := New(SyntaxNet).Sentence(syntaxnetFixture(), 0, false)
	require.NoError(t, err)

	want := []sentence.Token{
		{Index: 0, Word: "I", Start: 0, End: 0, Head: 1, Label: "nsubj", Category: "PRON", BreakLevel: -1,
			Tag: "attribute { name: 'Case' value: 'Nom' }"},
		{Index: 1, Word: "run", Start: 2, End: 4, Head: -1, Label: "ROOT", Category: "VERB", BreakLevel: -1},
	}
	assert.Equal(t, want, s.Tokens)
}

func TestHeadOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		conv Convention
		head string
		want int
	}{
		{"zero-based past end", SyntaxNet, "2", -1},
		{"zero-based negative", SyntaxNet, "-3", -1},
		{"zero-based last", SyntaxNet, "1", 1},
		{"one-based past end", UDPipe, "3", -1},
		{"one-based last", UDPipe, "2", 1},
		{"one-based root", UDPipe, "0", -1},
		{"not a number", UDPipe, "x", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := maps(
				map[string]string{"text": "a b"},
				map[string]string{"word": "a", "head": tt.head},
				map[string]string{"word": "b"},
			)
			s, err := New(tt.conv).Sentence(rs, 0, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Tokens[0].Head)
		})
	}
}

func TestHeadOutOfRangeLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rs := maps(
		map[string]string{"text": "a"},
		map[string]string{"word": "a", "head": "9", "feats": "Case=Nom|junk"},
	)
	_, err := New(UDPipe, WithLogger(logger)).Sentence(rs, 0, false)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "head out of range")
	assert.Contains(t, buf.String(), "skipped malformed features")
}

func TestDefaults(t *testing.T) {
	rs := maps(
		map[string]string{"text": "x"},
		map[string]string{"word": "x"},
	)

	a := New(UDPipe)
	first, err := a.Sentence(rs, 0, false)
	require.NoError(t, err)

	want := sentence.Token{Word: "x", Start: -1, End: -1, Head: -1, BreakLevel: -1}
	assert.Equal(t, []sentence.Token{want}, first.Tokens)
	assert.Equal(t, "", first.DocID)

	second, err := a.Sentence(rs, 0, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTagFallback(t *testing.T) {
	rs := maps(
		map[string]string{"text": "a b c"},
		// morphology present but empty wins over the raw tag
		map[string]string{"word": "a", "feats": "", "tag": "raw"},
		map[string]string{"word": "b", "tag": "raw"},
		map[string]string{"word": "c", "xpostag": "NN"},
	)
	s, err := New(SyntaxNet).Sentence(rs, 0, false)
	require.NoError(t, err)

	assert.Equal(t, "", s.Tokens[0].Tag)
	assert.Equal(t, "raw", s.Tokens[1].Tag)
	assert.Equal(t, "name: 'xpostag' value: 'NN'", s.Tokens[2].Tag)
}

func TestSentenceMetaOffsets(t *testing.T) {
	rs := maps(
		map[string]string{"text": "café", "start": "0", "end": "5"},
		map[string]string{"word": "café", "start": "0", "end": "5"},
	)
	s, err := New(UDPipe).Sentence(rs, 0, false)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Start)
	assert.Equal(t, 4, s.End)
	assert.Equal(t, 0, s.Tokens[0].Start)
	assert.Equal(t, 3, s.Tokens[0].End)
}

func TestSegmented(t *testing.T) {
	// offsets relative to "First. Second one."
	rs := maps(
		map[string]string{"text": "Second one."},
		map[string]string{"word": "Second", "start": "7", "end": "13", "head": "0"},
		map[string]string{"word": "one", "start": "14", "end": "17", "head": "1"},
		map[string]string{"word": ".", "start": "17", "end": "18", "head": "1"},
		map[string]string{"word": "?"},
	)

	s, err := New(UDPipe).Sentence(rs, 1, true)
	require.NoError(t, err)

	got := make([][2]int, 0, len(s.Tokens))
	for _, tk := range s.Tokens {
		got = append(got, [2]int{tk.Start, tk.End})
	}
	assert.Equal(t, [][2]int{{0, 5}, {7, 9}, {10, 10}, {-1, -1}}, got)

	_, err = New(UDPipe).Sentence(rs, 1, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
}

func TestSegmentedNegativeOffset(t *testing.T) {
	rs := maps(
		map[string]string{"text": "ab"},
		map[string]string{"word": "a", "start": "7", "end": "8"},
		map[string]string{"word": "b", "start": "3", "end": "4"},
	)
	_, err := New(UDPipe).Sentence(rs, 0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
	assert.Contains(t, err.Error(), "sentence 0 token 1")

	// a negative first start must not become the base
	rs = maps(
		map[string]string{"text": "ab"},
		map[string]string{"word": "a", "start": "-5", "end": "-4"},
		map[string]string{"word": "b", "start": "-4", "end": "-3"},
	)
	_, err = New(UDPipe).Sentence(rs, 0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
	assert.Contains(t, err.Error(), "sentence 0 token 0")

	// later tokens are checked before rebasing too
	rs = maps(
		map[string]string{"text": "ab"},
		map[string]string{"word": "a", "start": "4", "end": "5"},
		map[string]string{"word": "b", "start": "-3", "end": "6"},
	)
	_, err = New(UDPipe).Sentence(rs, 0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
	assert.Contains(t, err.Error(), "sentence 0 token 1")
}

func TestSentenceErrors(t *testing.T) {
	tests := []struct {
		name string
		rs   raw.Sentence
		err  error
	}{
		{"no records", raw.Sentence{}, ErrEmptySentence},
		{"metadata only", maps(map[string]string{"text": "x"}), ErrEmptySentence},
		{"no text", maps(map[string]string{}, map[string]string{"word": "x"}), ErrMissingRequiredField},
		{"no word", maps(map[string]string{"text": "x"}, map[string]string{"lemma": "x"}), ErrMissingRequiredField},
		{"end past text", maps(map[string]string{"text": "é"}, map[string]string{"word": "é", "start": "0", "end": "4"}), ErrOffsetOutOfRange},
		{"negative start", maps(map[string]string{"text": "x"}, map[string]string{"word": "x", "start": "-2"}), ErrOffsetOutOfRange},
		{"meta start past text", maps(map[string]string{"text": "x", "start": "2"}, map[string]string{"word": "x"}), ErrOffsetOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(UDPipe).Sentence(tt.rs, 3, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), "sentence 3"), "got %v", err)
		})
	}
}

func TestBatch(t *testing.T) {
	rss := []raw.Sentence{udpipeFixture(), udpipeFixture()}
	out, err := New(UDPipe).Batch(rss, false)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i, s := range out {
		for _, tk := range s.Tokens {
			assert.Equal(t, i, tk.SentenceIndex)
		}
	}
}

func TestBatchEmpty(t *testing.T) {
	out, err := New(UDPipe).Batch(nil, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBatchFailFast(t *testing.T) {
	tests := []struct {
		name   string
		second raw.Sentence
		err    error
	}{
		{"zero records", raw.Sentence{}, ErrEmptySentence},
		{"metadata only", maps(map[string]string{"text": "x"}), ErrEmptySentence},
		{"missing word", maps(map[string]string{"text": "x"}, map[string]string{}), ErrMissingRequiredField},
	}

	for _, workers := range []int{1, 3} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%d workers", tt.name, workers), func(t *testing.T) {
				rss := []raw.Sentence{udpipeFixture(), tt.second, udpipeFixture()}
				out, err := New(UDPipe, WithWorkers(workers)).Batch(rss, false)
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				assert.Nil(t, out)
				assert.Contains(t, err.Error(), "sentence 1")
			})
		}
	}
}

func TestBatchWorkersKeepOrder(t *testing.T) {
	rss := make([]raw.Sentence, 0, 64)
	for i := 0; i < 64; i++ {
		w := fmt.Sprintf("w%d", i)
		rss = append(rss, maps(
			map[string]string{"text": w},
			map[string]string{"word": w, "start": "0", "end": fmt.Sprint(len(w))},
		))
	}

	out, err := New(UDPipe, WithWorkers(8)).Batch(rss, false)
	require.NoError(t, err)
	require.Len(t, out, len(rss))

	for i, s := range out {
		w := fmt.Sprintf("w%d", i)
		assert.Equal(t, w, s.Text)
		require.Len(t, s.Tokens, 1)
		assert.Equal(t, i, s.Tokens[0].SentenceIndex)
		assert.Equal(t, len(w)-1, s.Tokens[0].End)
	}
}

func TestSource(t *testing.T) {
	src := raw.Maps{
		{{"text": "a"}, {"word": "a"}},
	}
	out, err := New(SyntaxNet).Source(src, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Tokens[0].Word)
}

func TestConventionByName(t *testing.T) {
	c, err := ConventionByName("udpipe")
	require.NoError(t, err)
	assert.Equal(t, UDPipe, c)
	assert.Equal(t, OneBased, c.Heads)

	c, err = ConventionByName("syntaxnet")
	require.NoError(t, err)
	assert.Equal(t, ZeroBased, c.Heads)
	assert.False(t, c.EndExclusive)

	_, err = ConventionByName("spacy")
	require.Error(t, err)
}
