// index is a persistent cache of vault documents and their last-known
// front matter, so cleanup can enumerate identifiers without re-parsing
// every file.
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

// Document is an indexed document with its cached front matter fields.
type Document struct {
	Path   string
	Fields map[string]any
}

// Index wraps the SQLite database backing the document cache.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and
// initializes the schema.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// path: vault-relative document path
	// last_modified: mtime at indexing, to skip unchanged files
	// fields: JSON-encoded front matter of the last parse
	if _, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS documents (
            path TEXT PRIMARY KEY,
            last_modified INTEGER NOT NULL,
            fields TEXT NOT NULL DEFAULT '{}'
        )`); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}

// Upsert records a document and its front matter fields.
func (ix *Index) Upsert(path string, lastModified int64, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields for %s: %w", path, err)
	}
	_, err = ix.db.Exec(`
        INSERT INTO documents (path, last_modified, fields) VALUES (?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            last_modified = excluded.last_modified,
            fields = excluded.fields
    `, path, lastModified, string(encoded))
	return err
}

// LastModified returns the indexed modification time for path.
func (ix *Index) LastModified(path string) (int64, bool) {
	var ts int64
	err := ix.db.QueryRow(`SELECT last_modified FROM documents WHERE path = ?`, path).Scan(&ts)
	if err != nil {
		return 0, false
	}
	return ts, true
}

// Delete removes a document from the index.
func (ix *Index) Delete(path string) error {
	_, err := ix.db.Exec(`DELETE FROM documents WHERE path = ?`, path)
	return err
}

// Documents returns every indexed document with its cached fields.
func (ix *Index) Documents() ([]Document, error) {
	rows, err := ix.db.Query(`SELECT path, fields FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var path, encoded string
		if err := rows.Scan(&path, &encoded); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			fields = map[string]any{}
		}
		documents = append(documents, Document{Path: path, Fields: fields})
	}
	return documents, rows.Err()
}

// Prune deletes every indexed document whose path is not in seen.
func (ix *Index) Prune(seen map[string]struct{}) error {
	rows, err := ix.db.Query(`SELECT path FROM documents`)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return err
		}
		if _, ok := seen[path]; !ok {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, path := range stale {
		if err := ix.Delete(path); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}
