package volunteer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schema creates the volunteers table.
const Schema = `
CREATE TABLE IF NOT EXISTS volunteers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	gender TEXT NOT NULL,
	phone_no TEXT NOT NULL,
	language TEXT NOT NULL,
	location TEXT NOT NULL,
	coordinates TEXT,
	available_dates TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_volunteers_location ON volunteers(location);
`

// Query narrows a volunteer search. Empty fields match everything.
type Query struct {
	// Location is matched as a case-insensitive substring. Comma-separated
	// parts are OR'd, so "Pune, Maharashtra" matches either component.
	Location string
	// Language must match exactly, ignoring case. The sentinel
	// "Any Language" is treated as empty.
	Language string
}

// maxSearchResults caps a single search response.
const maxSearchResults = 50

// Store persists volunteers in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert validates and stores a volunteer, assigning its ID and creation time.
func (s *Store) Insert(ctx context.Context, v *Volunteer) error {
	if err := v.Validate(); err != nil {
		return err
	}
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()

	coords, err := marshalCoordinates(v.Coordinates)
	if err != nil {
		return err
	}
	dates, err := json.Marshal(v.AvailableDates)
	if err != nil {
		return fmt.Errorf("encode available dates: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO volunteers (id, name, age, gender, phone_no, language, location, coordinates, available_dates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Age, v.Gender, v.PhoneNo, v.Language, v.Location, coords, string(dates), v.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

// Get returns the volunteer with the given ID, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Volunteer, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	v, err := scanVolunteer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get volunteer: %w", err)
	}
	return v, nil
}

// List returns all volunteers, newest first.
func (s *Store) List(ctx context.Context) ([]*Volunteer, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// Search returns volunteers matching the query, newest first, capped at 50.
func (s *Store) Search(ctx context.Context, q Query) ([]*Volunteer, error) {
	var conds []string
	var args []any

	if loc := strings.TrimSpace(q.Location); loc != "" {
		var ors []string
		for _, part := range strings.Split(loc, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ors = append(ors, `instr(lower(location), lower(?)) > 0`)
			args = append(args, part)
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}
	if lang := strings.TrimSpace(q.Language); lang != "" && lang != "Any Language" {
		conds = append(conds, `lower(language) = lower(?)`)
		args = append(args, lang)
	}

	query := selectColumns
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT %d`, maxSearchResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search volunteers: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

const selectColumns = `
	SELECT id, name, age, gender, phone_no, language, location, coordinates, available_dates, created_at
	FROM volunteers`

type scanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(s scanner) (*Volunteer, error) {
	var v Volunteer
	var coords sql.NullString
	var dates string
	var createdAt int64
	err := s.Scan(&v.ID, &v.Name, &v.Age, &v.Gender, &v.PhoneNo, &v.Language, &v.Location, &coords, &dates, &createdAt)
	if err != nil {
		return nil, err
	}
	if coords.Valid && coords.String != "" {
		var c Coordinates
		if err := json.Unmarshal([]byte(coords.String), &c); err != nil {
			return nil, fmt.Errorf("decode coordinates: %w", err)
		}
		v.Coordinates = &c
	}
	if err := json.Unmarshal([]byte(dates), &v.AvailableDates); err != nil {
		return nil, fmt.Errorf("decode available dates: %w", err)
	}
	v.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &v, nil
}

func collect(rows *sql.Rows) ([]*Volunteer, error) {
	var out []*Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func marshalCoordinates(c *Coordinates) (any, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	return string(b), nil
}
