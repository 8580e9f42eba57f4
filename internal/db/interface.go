// Package db defines the database contracts shared by the questions repositories.
package db

import (
	"context"
	"database/sql"
)

// Connection executes parameterized queries against the forum database.
// Implementations must serialize access if the underlying handle is not safe
// for concurrent use, and must report the generated id of an insert through
// sql.Result.LastInsertId.
type Connection interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
