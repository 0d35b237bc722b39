// Package sqlite is the embedded DocumentStore: a single database file with
// one table per collection, each row holding a BSON document.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"alcyxob/sports-library/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store implements repository.DocumentStore on SQLite.
type Store struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	tables map[string]bool
}

var _ repository.DocumentStore = (*Store)(nil)

// Open creates or opens the database file at path, creating parent
// directories as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite has a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return &Store{db: db, path: path, tables: map[string]bool{}}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// table makes sure the collection's table exists and returns its quoted name.
func (s *Store) table(ctx context.Context, collection string) (string, error) {
	if !collectionName.MatchString(collection) {
		return "", fmt.Errorf("sqlite: invalid collection name %q", collection)
	}
	quoted := `"` + collection + `"`
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", repository.ErrClosed
	}
	if s.tables[collection] {
		return quoted, nil
	}
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+quoted+` (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id  TEXT NOT NULL UNIQUE,
		doc BLOB NOT NULL
	)`)
	if err != nil {
		return "", fmt.Errorf("create table %s: %w", collection, err)
	}
	s.tables[collection] = true
	return quoted, nil
}

func (s *Store) Insert(ctx context.Context, collection, id string, doc bson.Raw) error {
	t, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+t+` (id, doc) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`, id, []byte(doc))
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return repository.ErrDuplicate
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, collection, id string, doc bson.Raw) error {
	t, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+t+` (id, doc) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		id, []byte(doc))
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	t, err := s.table(ctx, collection)
	if err != nil {
		return nil, err
	}
	var doc []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM `+t+` WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return bson.Raw(doc), nil
}

func (s *Store) All(ctx context.Context, collection string) ([]bson.Raw, error) {
	t, err := s.table(ctx, collection)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM `+t+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	docs := []bson.Raw{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, bson.Raw(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return docs, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	t, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, collection string) error {
	t, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+t); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Close closes the database. Closing twice is harmless.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
