package scheme

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Schema creates the schemes table. Name is intentionally not unique:
// concurrent discoveries of the same scheme may insert duplicate rows, and
// FindLocal's substring match tolerates that.
const Schema = `
CREATE TABLE IF NOT EXISTS schemes (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_schemes_name ON schemes(name);
`

// Store wraps the scheme database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

const recordColumns = `id, name, description, details, created_at, updated_at`

// FindLocal returns the first scheme whose name contains nameQuery
// (case-insensitive), in insertion order. Returns (nil, nil) on miss.
func (s *Store) FindLocal(ctx context.Context, nameQuery string) (*Record, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM schemes
		WHERE instr(lower(name), lower(?)) > 0
		ORDER BY created_at ASC, id ASC LIMIT 1`, nameQuery)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// Insert adds a new scheme row, filling ID and timestamps when unset.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	now := time.Now().UnixMilli()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = now
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO schemes (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Description, rec.Details, rec.CreatedAt, rec.UpdatedAt)
	return err
}

// Get retrieves a scheme by ID. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM schemes WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List returns all schemes, newest first.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM schemes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a scheme by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM schemes WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Details,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
