package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps the workspace in a SQLite database: one row for the
// metadata and one row per ontology, each holding a JSON document.
type SQLiteStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "ontoforge.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS workspace (
			key TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ontologies (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st *State) (retErr error) {
	meta, recs, err := encodeState(st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workspace(key,payload) VALUES('meta',?) ON CONFLICT(key) DO UPDATE SET payload=excluded.payload`,
		meta); err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ontologies`); err != nil {
		return fmt.Errorf("clear ontologies: %w", err)
	}
	for i, r := range recs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ontologies(id,position,payload) VALUES(?,?,?)`,
			r.ID, i, r.Payload); err != nil {
			return fmt.Errorf("insert ontology %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM workspace WHERE key='meta'`).Scan(&meta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM ontologies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select ontologies: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var recs []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.ID, &r.Payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ontologies: %w", err)
	}
	return decodeState(meta, recs)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

var _ Store = (*SQLiteStore)(nil)
