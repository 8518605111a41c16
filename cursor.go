package sqlw

import (
	"context"
	"fmt"
	"log/slog"
)

// Reporter receives engine errors seen by a Cursor. It must not block for
// long; the cursor calls it synchronously.
type Reporter func(msg string, code int)

// SlogReporter returns a Reporter that logs to l at error level. A nil l
// uses slog.Default().
func SlogReporter(l *slog.Logger) Reporter {
	return func(msg string, code int) {
		lg := l
		if lg == nil {
			lg = slog.Default()
		}
		lg.Error("sqlw: query error", slog.String("error", msg), slog.Int("code", code))
	}
}

// Option configures a Cursor.
type Option func(*Cursor)

// WithReporter routes the cursor's engine errors to r instead of the
// default slog reporter. A nil r discards them.
func WithReporter(r Reporter) Option {
	return func(c *Cursor) {
		if r == nil {
			r = func(string, int) {}
		}
		c.report = r
	}
}

// noCopy makes go vet flag copies of a Cursor. A Cursor owns its statement
// exclusively; a copy would finalize it twice.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Cursor executes SQL on an Engine and reads one result row by row.
//
// A Cursor holds at most one open result. GetResult opens it, FetchRow
// walks it, the typed getters read the current row, and FreeResult releases
// it. GetResult and Execute fail with ErrResultOpen until the previous
// result is freed.
//
// A Cursor is not safe for concurrent use. Give each goroutine its own.
type Cursor struct {
	_ noCopy

	engine Engine
	report Reporter

	stmt      Stmt
	lastQuery string
	err       error

	row bool // a row is fetched
	col int  // sequential read pointer for the Next* getters

	// Outcome of the step GetResult performs; FetchRow consumes it once.
	cacheValid bool
	cacheRow   bool

	rowCount int64
	cols     []string
	index    columnIndex

	insertID int64
	affected int64
}

// NewCursor returns an idle cursor bound to e.
func NewCursor(e Engine, opts ...Option) *Cursor {
	c := &Cursor{engine: e, report: SlogReporter(nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine the cursor runs on.
func (c *Cursor) Engine() Engine { return c.engine }

// Connected reports whether the engine answers a ping.
func (c *Cursor) Connected(ctx context.Context) bool {
	return c.engine.Ping(ctx) == nil
}

// LastQuery returns the SQL text of the last Execute or GetResult.
func (c *Cursor) LastQuery() string { return c.lastQuery }

// Execute runs a statement that produces no rows (DDL, DML). It does not
// retain a result. On failure the error is also recorded on the engine and
// reported.
func (c *Cursor) Execute(ctx context.Context, query string, args ...any) error {
	if c.stmt != nil {
		return ErrResultOpen
	}
	c.lastQuery = query
	query, args, err := bindArgs(query, args)
	if err != nil {
		c.err = err
		return err
	}
	res, err := c.engine.Exec(ctx, query, args...)
	if err != nil {
		c.queryError(err)
		return err
	}
	c.err = nil
	c.insertID = c.engine.LastInsertID()
	c.affected = 0
	if n, aerr := res.RowsAffected(); aerr == nil {
		c.affected = n
	}
	return nil
}

// GetResult prepares query, steps to its first row and keeps the statement
// for FetchRow. The cursor must be idle: calling GetResult while a result is
// open returns ErrResultOpen and leaves the open result untouched.
//
// The returned Stmt stays owned by the cursor: callers must not Finalize it,
// and its Finalize returns ErrStmtOwned without closing anything. Release
// the result with FreeResult.
func (c *Cursor) GetResult(ctx context.Context, query string, args ...any) (Stmt, error) {
	if c.stmt != nil {
		return nil, ErrResultOpen
	}
	c.lastQuery = query
	query, args, err := bindArgs(query, args)
	if err != nil {
		c.err = err
		return nil, err
	}
	stmt, err := c.engine.Prepare(ctx, query, args...)
	if err != nil {
		c.queryError(err)
		return nil, err
	}
	ok, err := stmt.Step()
	if err != nil {
		_ = stmt.Finalize()
		c.queryError(err)
		return nil, err
	}

	c.err = nil
	c.stmt = stmt
	c.cacheValid, c.cacheRow = true, ok
	c.rowCount = 0
	if ok {
		c.rowCount = 1
	}
	c.row, c.col = false, 0
	c.cols = stmt.Columns()
	c.index = newColumnIndex(c.cols)
	return ownedStmt{stmt}, nil
}

// ownedStmt is the view of the open statement handed out by GetResult.
type ownedStmt struct {
	Stmt
}

func (ownedStmt) Finalize() error { return ErrStmtOwned }

// FreeResult finalizes the open statement and clears all row and column
// state. It is a no-op on an idle cursor.
func (c *Cursor) FreeResult() {
	if c.stmt != nil {
		if err := c.stmt.Finalize(); err != nil {
			c.queryError(err)
		}
	}
	c.stmt = nil
	c.row, c.col = false, 0
	c.cacheValid, c.cacheRow = false, false
	c.rowCount = 0
	c.cols = nil
	c.index = columnIndex{}
}

// FetchRow advances to the next row. It returns false when the rows are
// exhausted, when no result is open, or when the engine fails; Err tells
// the last two apart.
func (c *Cursor) FetchRow() bool {
	c.col = 0
	if c.stmt == nil {
		c.row = false
		return false
	}
	if c.cacheValid {
		c.cacheValid = false
		c.row = c.cacheRow
		return c.row
	}
	if !c.row {
		// Exhausted; do not step a finished statement again.
		return false
	}
	ok, err := c.stmt.Step()
	if err != nil {
		c.queryError(err)
		c.row = false
		return false
	}
	c.row = ok
	if ok {
		c.rowCount++
	}
	return ok
}

// Err returns the error of the last failed operation on this cursor, or nil.
// Use it after FetchRow returns false to tell an error from the end of rows.
func (c *Cursor) Err() error { return c.err }

// InsertID returns the row id of the last insert done through Execute.
func (c *Cursor) InsertID() int64 { return c.insertID }

// RowsAffected returns the rows changed by the last Execute.
func (c *Cursor) RowsAffected() int64 { return c.affected }

// NumRows returns the number of rows of the open result seen so far. It is
// 0 if and only if the result is empty, and exact once FetchRow has
// returned false.
func (c *Cursor) NumRows() int64 { return c.rowCount }

// NumCols returns the number of columns of the open result, or 0.
func (c *Cursor) NumCols() int { return len(c.cols) }

// Columns returns the column names of the open result.
func (c *Cursor) Columns() []string { return append([]string(nil), c.cols...) }

// IsNull reports whether column i of the current row is NULL. It returns
// false when no row is fetched or i is out of range.
func (c *Cursor) IsNull(i int) bool {
	v, err := c.ValueAt(i)
	return err == nil && v.IsNull()
}

// LastError returns the engine's last error text.
func (c *Cursor) LastError() string { return c.engine.LastError() }

// LastErrno returns the engine's last error code.
func (c *Cursor) LastErrno() int { return c.engine.LastErrno() }

// ColumnIndex resolves a column name of the open result to its zero-based
// index. Exact matches win; otherwise the name is matched case-insensitively
// with identifier quotes removed.
func (c *Cursor) ColumnIndex(name string) (int, error) {
	if c.stmt == nil {
		return 0, ErrNoResult
	}
	i, ok := c.index.lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

// ValueAt returns column i of the current row.
func (c *Cursor) ValueAt(i int) (Value, error) {
	if c.stmt == nil {
		return Value{}, ErrNoResult
	}
	if !c.row {
		return Value{}, ErrNoRow
	}
	if i < 0 || i >= len(c.cols) {
		return Value{}, fmt.Errorf("%w: %d not in [0,%d)", ErrColumnRange, i, len(c.cols))
	}
	return c.stmt.Column(i), nil
}

// Value returns the named column of the current row.
func (c *Cursor) Value(name string) (Value, error) {
	i, err := c.ColumnIndex(name)
	if err != nil {
		return Value{}, err
	}
	return c.ValueAt(i)
}

// NextValue returns the column at the read pointer and advances it.
func (c *Cursor) NextValue() (Value, error) {
	v, err := c.ValueAt(c.col)
	if err != nil {
		return Value{}, err
	}
	c.col++
	return v, nil
}

// queryError records err on the cursor and routes it to the reporter with
// the engine's error code.
func (c *Cursor) queryError(err error) {
	c.err = err
	code := c.engine.LastErrno()
	if code == 0 {
		code = 1
	}
	msg := err.Error()
	if c.lastQuery != "" {
		msg = fmt.Sprintf("%s (query: %s)", msg, c.lastQuery)
	}
	c.report(msg, code)
}
