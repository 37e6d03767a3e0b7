/*
Package sqlite persists quote-option tower documents in SQLite.

PURPOSE:
  The engine itself is a pure library: it takes a tower and returns a
  tower, owning no storage. This package is the external collaborator
  that owns the records - one row per quote option, holding the
  persisted tower document produced by the quote package plus a few
  extracted columns for listing.

KEY TABLE:
  quote_options:
    id            UUID of the option
    name          display name ("Option A - lead 5M")
    position      primary/excess (extracted for list views)
    term_start/
    term_end      structure term (extracted for list views)
    document      the persisted tower JSON (authoritative)

CONCURRENCY:
  sync.RWMutex for in-process safety; SQLite opened in WAL mode so
  readers do not block. Edit serialization across callers is
  last-write-wins on the row, which is all the engine asks of its
  owning collaborator.

USAGE:
  store, err := sqlite.New("./data/towers.db")
  if err != nil { ... }
  defer store.Close()
  err = store.Save(ctx, option)

SEE ALSO:
  - quote: produces/consumes the document column
  - api: HTTP surface over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no quote option has the requested ID.
var ErrNotFound = errors.New("quote option not found")

// QuoteOption is one stored program option.
type QuoteOption struct {
	ID        string
	Name      string
	Position  string
	TermStart string
	TermEnd   string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists quote options in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the store at dbPath. Use ":memory:" for an
// in-memory database in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quote_options (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT 'primary',
		term_start TEXT,
		term_end TEXT,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quote_options_name
		ON quote_options(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or updates a quote option.
func (s *Store) Save(ctx context.Context, opt QuoteOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO quote_options (id, name, position, term_start, term_end, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			term_start = excluded.term_start,
			term_end = excluded.term_end,
			document = excluded.document,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		opt.ID, opt.Name, opt.Position, opt.TermStart, opt.TermEnd,
		string(opt.Document), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save quote option: %w", err)
	}
	return nil
}

// Get returns the quote option with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*QuoteOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, position, term_start, term_end, document, created_at, updated_at
		FROM quote_options WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	opt, err := scanOption(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote option: %w", err)
	}
	return opt, nil
}

// List returns all quote options, newest first.
func (s *Store) List(ctx context.Context) ([]QuoteOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, position, term_start, term_end, document, created_at, updated_at
		FROM quote_options ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote options: %w", err)
	}
	defer rows.Close()

	var options []QuoteOption
	for rows.Next() {
		opt, err := scanOption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote option: %w", err)
		}
		options = append(options, *opt)
	}
	return options, rows.Err()
}

// Delete removes a quote option.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM quote_options WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote option: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOption(row rowScanner) (*QuoteOption, error) {
	var (
		opt      QuoteOption
		document string
		created  string
		updated  string
	)
	err := row.Scan(&opt.ID, &opt.Name, &opt.Position, &opt.TermStart, &opt.TermEnd,
		&document, &created, &updated)
	if err != nil {
		return nil, err
	}
	opt.Document = []byte(document)
	opt.CreatedAt, _ = time.Parse(time.RFC3339, created)
	opt.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &opt, nil
}
