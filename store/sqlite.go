// ABOUTME: SQLite-backed snapshot store keeping the workspace files in a single table.
// ABOUTME: Saves replace the snapshot transactionally with upserts; loads scan all rows.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteSnapshots persists workspace snapshots in a SQLite database. The
// files table always mirrors the latest snapshot; the meta table records
// when it was written.
type SqliteSnapshots struct {
	db *sql.DB
}

// OpenSqlite opens or creates a snapshot database at the given path.
// Runs migrations to ensure the schema is up to date.
func OpenSqlite(path string) (*SqliteSnapshots, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS files (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SqliteSnapshots{db: db}, nil
}

// Close closes the underlying database.
func (ss *SqliteSnapshots) Close() error {
	return ss.db.Close()
}

// Save replaces the stored snapshot with files inside one transaction, so
// readers never observe a half-written snapshot.
func (ss *SqliteSnapshots) Save(files map[string]string) error {
	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM files"); err != nil {
		return fmt.Errorf("clear files: %w", err)
	}

	for name, content := range files {
		_, err := tx.Exec(`
			INSERT INTO files (name, content) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET content = excluded.content`,
			name, content)
		if err != nil {
			return fmt.Errorf("upsert file %q: %w", name, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO meta (key, value) VALUES ('saved_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record saved_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. Returns (nil, nil) when nothing was ever
// saved, which the meta table distinguishes from an empty snapshot.
func (ss *SqliteSnapshots) Load() (map[string]string, error) {
	var savedAt string
	err := ss.db.QueryRow("SELECT value FROM meta WHERE key = 'saved_at'").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query saved_at: %w", err)
	}

	rows, err := ss.db.Query("SELECT name, content FROM files")
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make(map[string]string)
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		files[name] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}
	return files, nil
}
