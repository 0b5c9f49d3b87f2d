// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps extracted page text in a SQLite database keyed by the
// SHA-256 digest of the source file and the extractor that produced it, so
// a file is parsed once per extractor no matter where it lives on disk.
// The extractor is stored in the backend column.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pagedump/pkg/types"
)

const (
	appDir = "pagedump"
	dbFile = "pages.db"
)

// Stats summarizes the cache contents.
type Stats struct {
	Documents int
	Pages     int
}

// Store manages the page cache database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database location used when none is configured:
// the user cache directory, falling back to the system temp directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir, dbFile)
}

// NewStore opens or creates the cache database at cfg.Path (or DefaultPath)
// and creates the schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			digest TEXT NOT NULL,
			backend TEXT NOT NULL,
			source_path TEXT,
			page_count INTEGER NOT NULL,
			cached_at TEXT,
			PRIMARY KEY (digest, backend)
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			digest TEXT NOT NULL,
			backend TEXT NOT NULL,
			number INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (digest, backend, number),
			FOREIGN KEY (digest, backend) REFERENCES documents(digest, backend) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached page texts for digest and extractor, in page order.
// The boolean is false when nothing is cached.
func (s *Store) Get(ctx context.Context, digest, extractor string) ([]string, bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT page_count FROM documents WHERE digest = ? AND backend = ?`,
		digest, extractor).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up %s: %w", digest, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, text FROM pages WHERE digest = ? AND backend = ? ORDER BY number`,
		digest, extractor)
	if err != nil {
		return nil, false, fmt.Errorf("reading pages of %s: %w", digest, err)
	}
	defer rows.Close()

	pages := make([]string, 0, count)
	for rows.Next() {
		var num int
		var text string
		if err := rows.Scan(&num, &text); err != nil {
			return nil, false, fmt.Errorf("scanning page: %w", err)
		}
		if num != len(pages)+1 {
			return nil, false, fmt.Errorf("cache entry %s is missing page %d", digest, len(pages)+1)
		}
		pages = append(pages, text)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(pages) != count {
		return nil, false, fmt.Errorf("cache entry %s has %d of %d pages", digest, len(pages), count)
	}
	return pages, true, nil
}

// Put stores the page texts for digest and extractor, replacing any previous
// entry.
func (s *Store) Put(ctx context.Context, digest, extractor, sourcePath string, pages []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE digest = ? AND backend = ?`,
		digest, extractor); err != nil {
		return fmt.Errorf("clearing old entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (digest, backend, source_path, page_count, cached_at) VALUES (?, ?, ?, ?, ?)`,
		digest, extractor, sourcePath, len(pages), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages (digest, backend, number, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing page insert: %w", err)
	}
	defer stmt.Close()

	for i, text := range pages {
		if _, err := stmt.ExecContext(ctx, digest, extractor, i+1, text); err != nil {
			return fmt.Errorf("inserting page %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Stats counts cached documents and pages.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&st.Documents); err != nil {
		return st, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&st.Pages); err != nil {
		return st, fmt.Errorf("counting pages: %w", err)
	}
	return st, nil
}

// Purge deletes every cached document and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// FileDigest returns the hex SHA-256 of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
