package main

import (
	"fmt"
	"os"

	"github.com/revelaction/depnorm/storage"
	"github.com/revelaction/depnorm/storage/filesystem"
	"github.com/revelaction/depnorm/storage/sqlite/zombiezen"
)

// NewDocRepository opens the doc repository at path: a directory is a
// filesystem store, anything else a SQLite database. With create, a missing
// database is created along with its schema.
func NewDocRepository(p *Pool, path string, create bool) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return filesystem.NewDocStore(path)
	}
	if err != nil && !create {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}

	if create {
		if err := zombiezen.CreateSchema(pool, zombiezen.DocsSchema); err != nil {
			return nil, fmt.Errorf("failed to create docs tables: %w", err)
		}
	}

	return zombiezen.NewDocStore(pool), nil
}

func (e *env) repository(create bool) (storage.DocRepository, error) {
	return NewDocRepository(e.pool, e.cfg.Storage.DocPath, create)
}
