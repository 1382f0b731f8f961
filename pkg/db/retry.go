package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATEs worth retrying a whole transaction for: serialization
// failure, deadlock detected, lock not available.
var retryableSQLStates = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

// RetryableTxError reports whether a failed transaction hit a transient
// lock/serialization conflict and can safely be re-run from the top.
func RetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryableSQLStates[pgErr.Code]
	}
	return false
}
