package zombiezen

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/depnorm/sentence"
	"github.com/revelaction/depnorm/storage"
)

func sentence(text string, words ...string) sent.Sentence {
	s := sent.Sentence{Text: text, Start: -1, End: -1}
	for i, w := range words {
		s.Tokens = append(s.Tokens, sent.Token{Index: i, Word: w, Start: -1, End: -1, Head: -1, BreakLevel: -1, Tag: "name: 'lemma' value: '" + w + "'"})
	}
	return s
}

func newStore(t *testing.T) *DocStore {
	t.Helper()

	pool, err := NewPool(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, CreateSchema(pool, DocsSchema))
	// idempotent
	require.NoError(t, CreateSchema(pool, DocsSchema))

	return NewDocStore(pool)
}

func fill(t *testing.T, h *DocStore) (int, int) {
	t.Helper()

	a, err := h.Write(sent.Doc{Title: "a", Labels: []string{"novel", "es"}, Batch: "b-1", Sentences: []sent.Sentence{
		sentence("El perro ladra", "El", "perro", "ladra"),
		sentence("Un gato", "Un", "gato"),
	}})
	require.NoError(t, err)

	b, err := h.Write(sent.Doc{Title: "b", Labels: []string{"poem"}, Sentences: []sent.Sentence{
		sentence("el gato duerme", "el", "gato", "duerme"),
	}})
	require.NoError(t, err)

	return a, b
}

func TestWriteRead(t *testing.T) {
	h := newStore(t)
	a, _ := fill(t, h)

	doc, err := h.Read(a)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Title)
	assert.Equal(t, []string{"novel", "es"}, doc.Labels)
	assert.Equal(t, "b-1", doc.Batch)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, sentence("Un gato", "Un", "gato"), doc.Sentences[1])

	_, err = h.Read(99)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	h := newStore(t)
	a, b := fill(t, h)

	docs, err := h.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, a, docs[0].Id)
	assert.Equal(t, b, docs[1].Id)
	assert.Nil(t, docs[0].Sentences)

	docs, err = h.List("poe")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Title)

	// no label holds the separator
	docs, err = h.List("novel,es")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFindCandidates(t *testing.T) {
	h := newStore(t)
	a, b := fill(t, h)

	var got []storage.Result
	collect := func(r storage.Result) error {
		got = append(got, r)
		return nil
	}

	cursor, err := h.FindCandidates([]string{"gato"}, 0, 10, collect)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].DocID)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, "Un gato", got[0].Sentence.Text)
	assert.Equal(t, b, got[1].DocID)
	assert.Equal(t, storage.Cursor(got[1].RowID), cursor)

	// exhausted
	got = nil
	next, err := h.FindCandidates([]string{"gato"}, cursor, 10, collect)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, cursor, next)

	// all words, case folded at write
	got = nil
	_, err = h.FindCandidates([]string{"el", "gato"}, 0, 10, collect)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "el gato duerme", got[0].Sentence.Text)

	// paging without words
	got = nil
	cursor, err = h.FindCandidates(nil, 0, 2, collect)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	got = nil
	_, err = h.FindCandidates(nil, cursor, 2, collect)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindCandidatesCallbackError(t *testing.T) {
	h := newStore(t)
	fill(t, h)

	stop := errors.New("stop")
	_, err := h.FindCandidates(nil, 0, 0, func(storage.Result) error { return stop })
	assert.True(t, errors.Is(err, stop))
}

func TestLabels(t *testing.T) {
	h := newStore(t)
	fill(t, h)

	labels, err := h.Labels("")
	require.NoError(t, err)
	assert.Equal(t, []string{"es", "novel", "poem"}, labels)

	labels, err = h.Labels("o")
	require.NoError(t, err)
	assert.Equal(t, []string{"novel", "poem"}, labels)
}
