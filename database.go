package sqlw

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
)

// Database is an Engine over a *sql.DB. It works with any database/sql
// driver and remembers the outcome of the last statement so callers can
// poll LastError, LastErrno and LastInsertID after the fact.
//
// A Database is safe for concurrent use; the cursors built on it are not.
type Database struct {
	db     *sql.DB
	errno  func(error) int
	logger *slog.Logger

	mu       sync.Mutex
	lastErr  string
	lastCode int
	insertID int64
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithErrno sets the function that maps a driver error to a numeric code.
// The default maps every non-nil error to 1.
func WithErrno(fn func(error) int) DatabaseOption {
	return func(d *Database) {
		if fn != nil {
			d.errno = fn
		}
	}
}

// WithLogger sets the logger used for statement tracing at debug level.
func WithLogger(l *slog.Logger) DatabaseOption {
	return func(d *Database) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDatabase wraps db. The caller keeps ownership of db and closes it.
func NewDatabase(db *sql.DB, opts ...DatabaseOption) *Database {
	d := &Database{
		db:     db,
		errno:  defaultErrno,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func defaultErrno(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// DB returns the wrapped handle.
func (d *Database) DB() *sql.DB { return d.db }

// Prepare runs query and returns its rows as a Stmt positioned before the
// first row.
func (d *Database) Prepare(ctx context.Context, query string, args ...any) (Stmt, error) {
	d.logger.DebugContext(ctx, "sqlw: query", slog.String("sql", query), slog.Int("args", len(args)))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		d.record(err)
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		d.record(err)
		return nil, err
	}
	d.record(nil)
	st := &rowsStmt{rows: rows, cols: cols, db: d}
	if types, err := rows.ColumnTypes(); err == nil {
		st.hints = make([]StorageClass, len(types))
		for i, ct := range types {
			st.hints[i] = classHint(ct.DatabaseTypeName())
		}
	}
	return st, nil
}

// Exec runs a statement that returns no rows and records its insert id.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.logger.DebugContext(ctx, "sqlw: exec", slog.String("sql", query), slog.Int("args", len(args)))
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		d.record(err)
		return nil, err
	}
	d.record(nil)
	// Not every driver reports insert ids; keep the previous one then.
	if id, ierr := res.LastInsertId(); ierr == nil {
		d.mu.Lock()
		d.insertID = id
		d.mu.Unlock()
	}
	return res, nil
}

// Ping verifies the connection.
func (d *Database) Ping(ctx context.Context) error {
	err := d.db.PingContext(ctx)
	if err != nil {
		d.record(err)
	}
	return err
}

// LastInsertID returns the insert id of the last successful Exec.
func (d *Database) LastInsertID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertID
}

// LastError returns the text of the last recorded error.
func (d *Database) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// LastErrno returns the code of the last recorded error.
func (d *Database) LastErrno() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCode
}

// record stores the outcome of the latest operation; nil clears it.
func (d *Database) record(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		d.lastErr, d.lastCode = "", 0
		return
	}
	d.lastErr, d.lastCode = err.Error(), d.errno(err)
}
