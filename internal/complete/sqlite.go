package complete

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Current schema version
const sqliteSchemaVersion = "1"

// maxSQLiteRows bounds a single lookup; Normalize truncates further.
const maxSQLiteRows = 100

// SQLiteCatalog is a tag catalog stored in a SQLite database.
type SQLiteCatalog struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLiteCatalog opens (creating if needed) the catalog at path.
func OpenSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			name TEXT PRIMARY KEY,
			id TEXT,
			value REAL,
			kind TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	var version string
	err = db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('schema_version', ?)`, sqliteSchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case err != nil:
		db.Close()
		return nil, err
	case version != sqliteSchemaVersion:
		db.Close()
		return nil, fmt.Errorf("unsupported catalog schema version: %s (expected %s)", version, sqliteSchemaVersion)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Close closes the database.
func (s *SQLiteCatalog) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a candidate, keyed by name.
func (s *SQLiteCatalog) Put(ctx context.Context, c Candidate) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("catalog entry without a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var id, value any
	if c.ID != "" {
		id = c.ID
	}
	if c.Value != nil {
		value = *c.Value
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, id, value, kind, description) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id,
			value = excluded.value,
			kind = excluded.kind,
			description = excluded.description
	`, c.Name, id, value, c.Kind, c.Description)
	return err
}

// Delete removes the entry with the given name.
func (s *SQLiteCatalog) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
	return err
}

// Lookup returns entries whose name contains query (ASCII case-insensitive).
func (s *SQLiteCatalog) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	if Blank(query) {
		return nil, nil
	}
	return s.query(ctx, `
		SELECT name, id, value, kind, description FROM tags
		WHERE name LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY rowid
		LIMIT ?
	`, escapeLike(query), maxSQLiteRows)
}

// All returns every entry in insertion order.
func (s *SQLiteCatalog) All(ctx context.Context) ([]Candidate, error) {
	return s.query(ctx, `SELECT name, id, value, kind, description FROM tags ORDER BY rowid`)
}

func (s *SQLiteCatalog) query(ctx context.Context, q string, args ...any) ([]Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var (
			c     Candidate
			id    sql.NullString
			value sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &id, &value, &c.Kind, &c.Description); err != nil {
			return nil, err
		}
		c.ID = id.String
		if value.Valid {
			c.Value = Float(value.Float64)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
