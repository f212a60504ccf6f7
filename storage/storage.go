package storage

import (
	"strings"

	sent "github.com/revelaction/depnorm/sentence"
)

// Cursor for paginated word-based queries
type Cursor int64

// Result is a candidate sentence returned by FindCandidates.
type Result struct {
	// RowID orders the results. It is the new cursor after this result.
	RowID int64

	DocID int

	// Index is the position of the sentence in its doc.
	Index int

	Sentence sent.Sentence
}

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels, Batch) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Sentences) is not loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// FindCandidates returns sentences containing ALL given lowercase words,
	// resuming after the given cursor, by ascending RowID. With no words every
	// sentence is a candidate. It calls onResult for each result.
	// Returns the new cursor and any error.
	FindCandidates(words []string, after Cursor, limit int, onResult func(Result) error) (Cursor, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences/words to storage and
	// returns its id.
	Write(doc sent.Doc) (int, error)
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(labels []string, cb func(current, total int, name string)) error
}

// Words returns the unique lowercase words of s, in order of appearance.
func Words(s sent.Sentence) []string {
	seen := map[string]bool{}
	var words []string
	for _, t := range s.Tokens {
		w := strings.ToLower(t.Word)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// HasLabel reports whether one of labels contains match. An empty match
// matches everything.
func HasLabel(labels []string, match string) bool {
	if match == "" {
		return true
	}
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}
