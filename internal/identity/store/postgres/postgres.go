// Package postgres implements the identity store contracts on PostgreSQL via
// pgx. Driver failures are translated into the sentinel errors at this
// boundary; schema.sql in this directory documents the expected tables.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"terranova/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for a violated unique
// constraint.
const uniqueViolation = "23505"

// translate maps pgx errors onto the store error contract.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
