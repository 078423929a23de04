// Package repo contains all database access logic for the bootcamp directory.
// Each collection has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping. Every method is a
// single statement and therefore its own commit.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campdir/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// SQLSTATE codes we translate into domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// uniqueFields maps unique constraint names to the field a client sees.
var uniqueFields = map[string]string{
	"camps_name_key": "name",
}

// referencingFields maps foreign key constraint names to the collection
// that holds the reference.
var referencingFields = map[string]string{
	"courses_camp_id_fkey": "courses",
}

// translateDeleteError maps a foreign key violation raised by a delete onto
// a *domain.ReferencedError naming the collection still holding references.
func translateDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return err
	}
	field, ok := referencingFields[pgErr.ConstraintName]
	if !ok {
		field = pgErr.TableName
	}
	return &domain.ReferencedError{Field: field}
}

// translateWriteError maps constraint violations onto domain errors.
// A unique violation becomes a *domain.ConflictError naming the field; a
// foreign key violation means the referenced camp does not exist.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return &domain.ConflictError{Field: conflictField(pgErr.ConstraintName)}
	case foreignKeyViolation:
		return domain.ErrNotFound
	}
	return err
}

// conflictField returns the client-facing field for a unique constraint.
// Unknown constraints fall back to the "<table>_<column>_key" naming convention.
func conflictField(constraint string) string {
	if f, ok := uniqueFields[constraint]; ok {
		return f
	}
	name := strings.TrimSuffix(constraint, "_key")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}
