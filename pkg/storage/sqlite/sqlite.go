// Package sqlite stores cache documents as rows of a SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pario-ai/stash/pkg/storage"
)

// Provider is a document store backed by SQLite. Each path maps to one row.
type Provider struct {
	db *sql.DB
}

var _ storage.Provider = (*Provider)(nil)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	path TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// New opens the database at dbPath and creates the schema.
func New(dbPath string) (*Provider, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	if _, err := db.Exec(createDocumentsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate storage db: %w", err)
	}

	return &Provider{db: db}, nil
}

// Read returns the document stored at path.
func (p *Provider) Read(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE path = ?`, path,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage read: %w", err)
	}
	return data, nil
}

// Write replaces the document stored at path.
func (p *Provider) Write(ctx context.Context, path string, data []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (path, data, updated_at) VALUES (?, ?, ?)`,
		path, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage write: %w", err)
	}
	return nil
}

// Paths lists every stored document path.
func (p *Provider) Paths(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT path FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("storage list: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("storage list: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Close releases the database connection.
func (p *Provider) Close() error {
	return p.db.Close()
}
