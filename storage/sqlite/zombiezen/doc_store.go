package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	sent "github.com/revelaction/depnorm/sentence"
	"github.com/revelaction/depnorm/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const labelSeparator = ","

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	query := "SELECT id, title, labels, batch FROM docs ORDER BY id"
	var args []any
	if labelMatch != "" {
		query = "SELECT id, title, labels, batch FROM docs WHERE instr(labels, ?) > 0 ORDER BY id"
		args = append(args, labelMatch)
	}

	var docs []sent.Doc
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := sent.Doc{
				Id:     stmt.ColumnInt(0),
				Title:  stmt.ColumnText(1),
				Labels: splitLabels(stmt.ColumnText(2)),
				Batch:  stmt.ColumnText(3),
			}
			// instr also matches across the separator
			if storage.HasLabel(doc.Labels, labelMatch) {
				docs = append(docs, doc)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels, batch FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			doc.Labels = splitLabels(stmt.ColumnText(1))
			doc.Batch = stmt.ColumnText(2)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc not found: %d", id)
	}

	err = sqlitex.Execute(conn, "SELECT data FROM sentences WHERE doc_id = ? ORDER BY idx", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var s sent.Sentence
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &s); err != nil {
				return err
			}
			doc.Sentences = append(doc.Sentences, s)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

func (h *DocStore) FindCandidates(words []string, after storage.Cursor, limit int, onResult func(storage.Result) error) (storage.Cursor, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	// INTERSECT keeps only sentences containing ALL words, each rowid once.
	var queryBuilder strings.Builder
	var args []any

	if len(words) == 0 {
		queryBuilder.WriteString("SELECT rowid FROM sentences WHERE rowid > ?")
		args = append(args, int64(after))
	}
	for i, word := range words {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT sentence_rowid FROM sentence_words WHERE word = ? AND sentence_rowid > ?")
		args = append(args, word, int64(after))
	}
	queryBuilder.WriteString(" ORDER BY 1")
	if limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	var rowIDs []int64
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	if len(rowIDs) == 0 {
		return after, nil
	}

	idStrings := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	query := fmt.Sprintf("SELECT rowid, doc_id, idx, data FROM sentences WHERE rowid IN (%s) ORDER BY rowid", strings.Join(idStrings, ","))

	newCursor := after
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res := storage.Result{
				RowID: stmt.ColumnInt64(0),
				DocID: stmt.ColumnInt(1),
				Index: stmt.ColumnInt(2),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(3)), &res.Sentence); err != nil {
				return err
			}
			if err := onResult(res); err != nil {
				return err
			}
			newCursor = storage.Cursor(res.RowID)
			return nil
		},
	})
	if err != nil {
		return newCursor, err
	}

	return newCursor, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	seen := map[string]bool{}
	var labels []string
	err = sqlitex.Execute(conn, "SELECT labels FROM docs WHERE labels != ''", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			for _, l := range splitLabels(stmt.ColumnText(0)) {
				if seen[l] || !strings.Contains(l, pattern) {
					continue
				}
				seen[l] = true
				labels = append(labels, l)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(labels)
	return labels, nil
}

func (h *DocStore) Write(doc sent.Doc) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(doc.Labels, labelSeparator)
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels, batch) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []any{doc.Title, labels, doc.Batch},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for idx, s := range doc.Sentences {
		data, err := json.Marshal(s)
		if err != nil {
			return 0, err
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, idx, data) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, idx, string(data)},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert sentence %d: %w", idx, err)
		}
		sentRowID := conn.LastInsertRowID()

		for _, word := range storage.Words(s) {
			err = sqlitex.Execute(conn, "INSERT INTO sentence_words (word, sentence_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []any{word, sentRowID},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert word: %w", err)
			}
		}
	}

	return int(docID), nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, labelSeparator)
}
