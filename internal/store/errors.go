package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Kind classifies row store failures.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "AuthError"
	case KindSchema:
		return "SchemaError"
	default:
		return "OtherError"
	}
}

// ErrCircuitOpen is wrapped into an Error when the breaker rejects a call.
var ErrCircuitOpen = errors.New("row store circuit breaker open")

// Error is returned by every failing accessor operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a store error, and false for any other error.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return KindOther, false
}

// MySQL server error numbers.
const (
	mysqlDBAccessDenied  = 1044
	mysqlAccessDenied    = 1045
	mysqlBadDB           = 1049
	mysqlBadField        = 1054
	mysqlNoSuchTable     = 1146
	mysqlTableAccessDeny = 1142
)

// wrap classifies a driver error; nil stays nil and an existing *Error is kept.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) Kind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindOther
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlAccessDenied, mysqlDBAccessDenied, mysqlTableAccessDeny:
			return KindAuth
		case mysqlBadDB, mysqlNoSuchTable, mysqlBadField:
			return KindSchema
		}
		return KindOther
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_AUTH, sqlite3.SQLITE_PERM:
			return KindAuth
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
			return KindSchema
		}
	}

	if common.HasAny(err.Error(), "no such table", "no such column", "has no column named") {
		return KindSchema
	}
	return KindOther
}
