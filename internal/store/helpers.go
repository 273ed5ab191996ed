package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// clampLimit applies the default and the maxListLimit cap.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}

	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// persistErr wraps a storage failure. Timeouts and failures that happened
// before anything reached the server are marked retryable.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}

	retryable := errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err) ||
		pgconn.SafeToRetry(err)

	return &models.PersistenceError{Op: op, Err: err, Retryable: retryable}
}
