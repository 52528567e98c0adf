package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when an update or lookup matched no row.
var ErrNotFound = errors.New("record not found")

// requireRowChanged converts a zero-rows-affected result into ErrNotFound so
// callers can distinguish "no such record" from a write failure.
func requireRowChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound)
}
