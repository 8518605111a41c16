package sqlw

import (
	"context"
	"database/sql"
	"errors"
)

// Engine is the database collaborator a Cursor runs statements against.
// *Database implements it over any database/sql driver.
type Engine interface {
	// Prepare compiles query and returns a statement positioned before its
	// first row.
	Prepare(ctx context.Context, query string, args ...any) (Stmt, error)
	// Exec runs a statement that does not return rows.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	// Ping reports whether the engine is reachable.
	Ping(ctx context.Context) error
	// LastInsertID returns the row id of the most recent successful insert.
	LastInsertID() int64
	// LastError returns the text of the most recent engine error, or "".
	LastError() string
	// LastErrno returns the code of the most recent engine error, or 0.
	LastErrno() int
}

// Stmt is a prepared, possibly executing statement owned by one Cursor.
type Stmt interface {
	// Step advances to the next row. It returns false with a nil error
	// when the rows are exhausted.
	Step() (bool, error)
	// Columns returns the result column names in order.
	Columns() []string
	// Column returns column i of the current row.
	Column(i int) Value
	// Finalize releases the statement. It is safe to call more than once.
	Finalize() error
}

var (
	// ErrResultOpen is returned by GetResult and Execute while the cursor
	// still holds a result. Call FreeResult first.
	ErrResultOpen = errors.New("sqlw: result still open; call FreeResult first")

	// ErrStmtOwned is returned by Finalize on the Stmt GetResult hands out.
	// The cursor finalizes it in FreeResult.
	ErrStmtOwned = errors.New("sqlw: statement is owned by the cursor; call FreeResult")

	// ErrNoResult is returned by row accessors on an idle cursor.
	ErrNoResult = errors.New("sqlw: no active result")

	// ErrNoRow is returned by column getters when no row is fetched, either
	// because FetchRow was not called or because the rows are exhausted.
	ErrNoRow = errors.New("sqlw: no current row")

	// ErrUnknownColumn is returned when a column name is not part of the
	// active result.
	ErrUnknownColumn = errors.New("sqlw: unknown column")

	// ErrColumnRange is returned when a column index, or the sequential read
	// pointer, falls outside the active result's columns.
	ErrColumnRange = errors.New("sqlw: column index out of range")
)
