package sqlw

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync/atomic"
	"testing"
)

// QueryHandler answers a query with column names and rows. nextErr, when
// non-nil, is returned by the driver after the rows are exhausted.
type QueryHandler func(query string, args []driver.NamedValue) (cols []string, rows [][]driver.Value, nextErr error, err error)

// ExecHandler answers a statement that returns no rows.
type ExecHandler func(query string, args []driver.NamedValue) (driver.Result, error)

type testConnector struct {
	q      QueryHandler
	e      ExecHandler
	types  []string     // declared column types reported for every query
	opened atomic.Int32 // driver rows opened
	closed atomic.Int32 // driver rows closed
}

func (c *testConnector) Connect(context.Context) (driver.Conn, error) { return &testConn{c: c}, nil }
func (c *testConnector) Driver() driver.Driver                        { return testDriver{} }

type testDriver struct{}

func (testDriver) Open(name string) (driver.Conn, error) {
	return nil, errors.New("testDriver.Open should not be called; use sql.OpenDB with connector")
}

type testConn struct {
	c *testConnector
}

func (c *testConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *testConn) Close() error                        { return nil }
func (c *testConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (c *testConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.c.q == nil {
		return nil, errors.New("no query handler")
	}
	cols, data, nextErr, err := c.c.q(query, args)
	if err != nil {
		return nil, err
	}
	c.c.opened.Add(1)
	return &testRows{cols: cols, types: c.c.types, data: data, nextErr: nextErr, closed: &c.c.closed}, nil
}

func (c *testConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if c.c.e == nil {
		return nil, errors.New("no exec handler")
	}
	return c.c.e(query, args)
}

type testRows struct {
	cols    []string
	types   []string
	data    [][]driver.Value
	nextErr error
	i       int
	closed  *atomic.Int32
}

func (r *testRows) Columns() []string { return append([]string(nil), r.cols...) }
func (r *testRows) ColumnTypeDatabaseTypeName(i int) string {
	if i < len(r.types) {
		return r.types[i]
	}
	return ""
}

func (r *testRows) Close() error {
	r.closed.Add(1)
	return nil
}

func (r *testRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		if r.nextErr != nil {
			return r.nextErr
		}
		return io.EOF
	}
	row := r.data[r.i]
	for i := range dest {
		if i < len(row) {
			dest[i] = row[i]
		} else {
			dest[i] = nil
		}
	}
	r.i++
	return nil
}

type testResult struct {
	lastID int64
	rows   int64
	liErr  error
}

func (r testResult) LastInsertId() (int64, error) { return r.lastID, r.liErr }
func (r testResult) RowsAffected() (int64, error) { return r.rows, nil }

// fixedRows answers every query with the same result.
func fixedRows(cols []string, rows ...[]driver.Value) QueryHandler {
	return func(string, []driver.NamedValue) ([]string, [][]driver.Value, error, error) {
		return cols, rows, nil, nil
	}
}

// newTestDB creates a *sql.DB backed by the in-memory test driver.
func newTestDB(t *testing.T, q QueryHandler, e ExecHandler) (*sql.DB, *testConnector) {
	t.Helper()
	conn := &testConnector{q: q, e: e}
	db := sql.OpenDB(conn)
	t.Cleanup(func() { _ = db.Close() })
	return db, conn
}

type report struct {
	msg  string
	code int
}

// newTestCursor returns a cursor over the test driver that collects its
// reports instead of logging them.
func newTestCursor(t *testing.T, q QueryHandler, e ExecHandler, opts ...DatabaseOption) (*Cursor, *testConnector, *[]report) {
	t.Helper()
	db, conn := newTestDB(t, q, e)
	var reports []report
	c := NewCursor(NewDatabase(db, opts...), WithReporter(func(msg string, code int) {
		reports = append(reports, report{msg, code})
	}))
	return c, conn, &reports
}

func TestDatabase_RecordsAndClearsLastError(t *testing.T) {
	boom := errors.New("no such table: nope")
	db, _ := newTestDB(t,
		func(q string, _ []driver.NamedValue) ([]string, [][]driver.Value, error, error) {
			if q == "bad" {
				return nil, nil, nil, boom
			}
			return []string{"x"}, nil, nil, nil
		}, nil)
	d := NewDatabase(db, WithErrno(func(err error) int {
		if errors.Is(err, boom) {
			return 42
		}
		return 7
	}))

	ctx := context.Background()
	if _, err := d.Prepare(ctx, "bad"); !errors.Is(err, boom) {
		t.Fatalf("Prepare err = %v, want %v", err, boom)
	}
	if d.LastError() != boom.Error() || d.LastErrno() != 42 {
		t.Fatalf("last error = (%q, %d)", d.LastError(), d.LastErrno())
	}

	st, err := d.Prepare(ctx, "good")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer func() { _ = st.Finalize() }()
	if d.LastError() != "" || d.LastErrno() != 0 {
		t.Fatalf("last error not cleared: (%q, %d)", d.LastError(), d.LastErrno())
	}
}

func TestDatabase_ExecKeepsInsertIDWhenUnsupported(t *testing.T) {
	calls := 0
	db, _ := newTestDB(t, nil, func(string, []driver.NamedValue) (driver.Result, error) {
		calls++
		if calls == 1 {
			return testResult{lastID: 5, rows: 1}, nil
		}
		return testResult{liErr: errors.New("unsupported")}, nil
	})
	d := NewDatabase(db)
	ctx := context.Background()
	if _, err := d.Exec(ctx, "INSERT 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Exec(ctx, "UPDATE"); err != nil {
		t.Fatal(err)
	}
	if got := d.LastInsertID(); got != 5 {
		t.Fatalf("LastInsertID = %d, want 5", got)
	}
}

func TestDatabase_DefaultErrno(t *testing.T) {
	if defaultErrno(nil) != 0 || defaultErrno(errors.New("x")) != 1 {
		t.Fatal("defaultErrno: want 0 for nil and 1 otherwise")
	}
}

func TestDatabase_ByteColumnsFollowDeclaredType(t *testing.T) {
	c, conn, _ := newTestCursor(t, fixedRows(
		[]string{"id", "name", "raw", "price", "big", "bad", "untyped"},
		[]driver.Value{[]byte("7"), []byte("abc"), []byte{0, 1}, []byte("2.5"),
			[]byte("18446744073709551615"), []byte{0xff, 0xfe}, []byte("x")},
	), nil)
	conn.types = []string{"INT", "VARCHAR", "BLOB", "DOUBLE", "UNSIGNED BIGINT", "TEXT", ""}

	if _, err := c.GetResult(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	defer c.FreeResult()
	if !c.FetchRow() {
		t.Fatal("FetchRow = false")
	}
	want := []StorageClass{Integer, Text, Blob, Float, Integer, Blob, Blob}
	for i, w := range want {
		v, err := c.ValueAt(i)
		if err != nil {
			t.Fatal(err)
		}
		if v.Class() != w {
			t.Errorf("column %d class = %s, want %s", i, v.Class(), w)
		}
	}
	big, _ := c.ValueAt(4)
	if big.Text() != "18446744073709551615" || big.Uint64() != 18446744073709551615 {
		t.Fatalf("big = %q / %d", big.Text(), big.Uint64())
	}
	if n, err := c.Int("id"); err != nil || n != 7 {
		t.Fatalf(`Int("id") = %d, %v`, n, err)
	}
}

func TestClassHint(t *testing.T) {
	tests := map[string]StorageClass{
		"":                Null,
		"INT":             Integer,
		"unsigned bigint": Integer,
		"VARCHAR(255)":    Text,
		"DECIMAL":         Text,
		"DATETIME":        Text,
		"DOUBLE":          Float,
		"VARBINARY":       Blob,
		"GEOGRAPHY":       Null,
	}
	for in, want := range tests {
		if got := classHint(in); got != want {
			t.Errorf("classHint(%q) = %s, want %s", in, got, want)
		}
	}
}
