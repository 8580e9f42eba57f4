package sqlite

import (
	"database/sql"
	"errors"
)

// ErrInvalidLimit is returned when a top-n report is asked for a negative n.
var ErrInvalidLimit = errors.New("limit must not be negative")

// likePattern wraps keyword for a substring LIKE match. The pattern is bound
// as a parameter, so the keyword never reaches the query text.
func likePattern(keyword string) string {
	return "%" + keyword + "%"
}

// nullInt64Ptr converts a nullable column into an optional value.
func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// checkLimit validates the n of a top-n report.
func checkLimit(n int) error {
	if n < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// int64PtrNull converts an optional value for binding as a nullable column.
func int64PtrNull(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
