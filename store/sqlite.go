package store

import (
	"context"
	"database/sql"
	"fmt"

	qsynth "github.com/mia-platform/quantum-synthetic-data-generator-experimemt"
	_ "modernc.org/sqlite"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS books (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	isbn           TEXT NOT NULL,
	published_year INTEGER NOT NULL,
	genre          TEXT NOT NULL,
	description    TEXT NOT NULL,
	state          TEXT NOT NULL,
	creator_id     TEXT NOT NULL,
	updater_id     TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS people (
	id     TEXT PRIMARY KEY,
	age    INTEGER NOT NULL,
	income INTEGER NOT NULL,
	region TEXT NOT NULL
)`,
}

// SQLite persists books and people into a database file, one row per record.
type SQLite struct {
	ctx context.Context
	db  *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLite{ctx: ctx, db: db}, nil
}

func (s *SQLite) Write(record any) error {
	var err error

	switch r := record.(type) {
	case qsynth.Sample:
		_, err = s.db.ExecContext(s.ctx,
			`INSERT INTO books (id, title, isbn, published_year, genre, description, state, creator_id, updater_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.ISBN, r.PublishedYear, r.Genre, r.Description, r.State, r.CreatorID, r.UpdaterID,
		)
	case qsynth.Person:
		_, err = s.db.ExecContext(s.ctx,
			`INSERT INTO people (id, age, income, region) VALUES (?, ?, ?, ?)`,
			r.ID, r.Age, r.Income, r.Region,
		)
	default:
		return fmt.Errorf("cannot store record of type %T", record)
	}

	return err
}

// Count returns the number of rows in table ("books" or "people").
func (s *SQLite) Count(table string) (int, error) {
	if table != "books" && table != "people" {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	err := s.db.QueryRowContext(s.ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
