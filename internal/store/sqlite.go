package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const rawCacheSchema = `
CREATE TABLE IF NOT EXISTS raw_cache (
	rel        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// SQLiteStore keeps raw responses in a single SQLite table. It is safe for
// concurrent use.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	// modernc sqlite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(rawCacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite cache: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Stat(rel string) (time.Time, bool) {
	var fetchedAt int64
	err := s.db.QueryRow(`SELECT fetched_at FROM raw_cache WHERE rel = ?`, rel).Scan(&fetchedAt)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, fetchedAt), true
}

func (s *SQLiteStore) ReadRaw(rel string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM raw_cache WHERE rel = ?`, rel).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return body, nil
}

func (s *SQLiteStore) WriteRaw(rel string, body []byte, pretty bool) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO raw_cache (rel, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(rel) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		rel, body, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
