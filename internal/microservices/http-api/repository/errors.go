package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup resolves to no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// pgUniqueViolation is the SQLSTATE postgres reports for unique index conflicts.
const pgUniqueViolation = "23505"

// translate maps driver level errors onto the package sentinels so callers
// never have to import gorm or pgconn.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// likePattern builds an ILIKE pattern matching q anywhere, with the LIKE
// wildcards in q escaped.
func likePattern(q string) string {
	escaped := make([]rune, 0, len(q)+2)
	for _, r := range q {
		if r == '%' || r == '_' || r == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return "%" + string(escaped) + "%"
}
