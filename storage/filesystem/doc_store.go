package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	sent "github.com/revelaction/depnorm/sentence"
	"github.com/revelaction/depnorm/storage"
)

const docExt = ".json"

// DocStore is a directory of JSON docs. The doc id is the position of the
// file in the directory listing.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []sent.Doc
	loaded []bool

	// docs left out by Preload
	excluded []bool
}

var (
	_ storage.DocRepository = (*DocStore)(nil)
	_ storage.Preloader     = (*DocStore)(nil)
)

// NewDocStore creates a filesystem document store. Docs are read lazily.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	h := &DocStore{docDir: docDir}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != docExt {
			continue
		}
		h.docs = append(h.docs, sent.Doc{
			Id:    len(h.docs),
			Title: file.Name(),
		})
	}

	h.loaded = make([]bool, len(h.docs))
	h.excluded = make([]bool, len(h.docs))
	return h, nil
}

// Preload reads every doc into memory. Docs missing one of labels are left
// out of FindCandidates.
func (h *DocStore) Preload(labels []string, cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i+1, total, h.docs[i].Title)
		}

		if err := h.load(i); err != nil {
			return err
		}

		for _, l := range labels {
			if !storage.HasLabel(h.docs[i].Labels, l) {
				h.excluded[i] = true
				break
			}
		}
	}

	return nil
}

func (h *DocStore) load(id int) error {
	if h.loaded[id] {
		return nil
	}

	doc, err := ReadDoc(filepath.Join(h.docDir, h.docs[id].Title))
	if err != nil {
		return err
	}

	// Title and Id come from the directory listing
	doc.Id = id
	doc.Title = h.docs[id].Title
	h.docs[id] = doc
	h.loaded[id] = true
	return nil
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	docs := make([]sent.Doc, 0, len(h.docs))
	for i := range h.docs {
		if labelMatch != "" {
			if err := h.load(i); err != nil {
				return nil, err
			}
		}

		d := h.docs[i]
		if !storage.HasLabel(d.Labels, labelMatch) {
			continue
		}
		docs = append(docs, sent.Doc{Id: d.Id, Title: d.Title, Labels: d.Labels, Batch: d.Batch})
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc id out of range: %d", id)
	}
	if err := h.load(id); err != nil {
		return sent.Doc{}, err
	}
	return h.docs[id], nil
}

// FindCandidates scans the docs in memory. The row id of a sentence is its
// position across all docs, starting at 1.
func (h *DocStore) FindCandidates(words []string, after storage.Cursor, limit int, onResult func(storage.Result) error) (storage.Cursor, error) {
	cursor := after
	var rowID int64
	found := 0

	for i := range h.docs {
		if err := h.load(i); err != nil {
			return cursor, err
		}

		doc := h.docs[i]
		for idx, s := range doc.Sentences {
			rowID++
			if h.excluded[i] || storage.Cursor(rowID) <= after {
				continue
			}
			if !containsAll(storage.Words(s), words) {
				continue
			}

			if err := onResult(storage.Result{RowID: rowID, DocID: doc.Id, Index: idx, Sentence: s}); err != nil {
				return cursor, err
			}
			cursor = storage.Cursor(rowID)

			found++
			if limit > 0 && found >= limit {
				return cursor, nil
			}
		}
	}

	return cursor, nil
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	seen := map[string]bool{}
	var labels []string
	for i := range h.docs {
		if err := h.load(i); err != nil {
			return nil, err
		}
		for _, l := range h.docs[i].Labels {
			if seen[l] || !strings.Contains(l, pattern) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}
	slices.Sort(labels)
	return labels, nil
}

// Write stores doc as a new JSON file named after its title. The returned id
// is the position of the file in the directory listing, as NewDocStore would
// number it; docs whose file sorts after it move up by one.
func (h *DocStore) Write(doc sent.Doc) (int, error) {
	name := fileName(doc.Title, len(h.docs))
	path := filepath.Join(h.docDir, name)

	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("doc file already exists: %s", path)
	}

	id, _ := slices.BinarySearchFunc(h.docs, name, func(d sent.Doc, name string) int {
		return strings.Compare(d.Title, name)
	})

	doc.Id = id
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("JSON encoding error: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("IO error: %w", err)
	}

	doc.Title = name
	h.docs = slices.Insert(h.docs, id, doc)
	h.loaded = slices.Insert(h.loaded, id, true)
	h.excluded = slices.Insert(h.excluded, id, false)
	for i := id + 1; i < len(h.docs); i++ {
		h.docs[i].Id = i
	}
	return id, nil
}

// fileName derives a file name from a doc title.
func fileName(title string, id int) string {
	base := strings.TrimSuffix(filepath.Base(title), docExt)
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		base = fmt.Sprintf("doc-%d", id)
	}
	return base + docExt
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
