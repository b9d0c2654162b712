package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect selects placeholder style and DDL for the underlying database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

func ParseDialect(value string) (Dialect, error) {
	switch Dialect(value) {
	case DialectSQLite, "":
		return DialectSQLite, nil
	case DialectPostgres, "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database dialect %q", value)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) builder() squirrel.StatementBuilderType {
	if d == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func (d Dialect) serialKey() string {
	if d == DialectPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// EnsureSchema creates the snapshot and degree tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id ` + dialect.serialKey() + `,
			ge TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			instructor TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			seats_available INTEGER NOT NULL,
			seats_total INTEGER NOT NULL,
			enroll_num TEXT NOT NULL DEFAULT '',
			class_type TEXT NOT NULL DEFAULT '',
			schedule TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS courses_ge_idx ON courses (ge)`,
		`CREATE TABLE IF NOT EXISTS refresh_state (
			id INTEGER PRIMARY KEY,
			last_refreshed TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS degrees (
			name TEXT PRIMARY KEY,
			url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS degree_courses (
			degree_name TEXT NOT NULL REFERENCES degrees (name) ON DELETE CASCADE,
			course_type TEXT NOT NULL,
			type_position INTEGER NOT NULL,
			course_position INTEGER NOT NULL,
			course_code TEXT NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
