/*
Package sqlw is a typed result cursor over a single prepared statement. You
run plain SQL against an embedded (or any database/sql) engine, walk the rows
with FetchRow, and read columns as Go scalars by name, by index, or left to
right.

# Overview

A Cursor owns at most one open result at a time:

	db := sqlw.NewDatabase(sqlDB)
	c := sqlw.NewCursor(db)

	if err := c.Execute(ctx, `INSERT INTO t VALUES (1, 'a')`); err != nil {
	    return err
	}
	fmt.Println(c.InsertID())

	if _, err := c.GetResult(ctx, `SELECT id, name FROM t`); err != nil {
	    return err
	}
	defer c.FreeResult()
	for c.FetchRow() {
	    id, _ := c.Int64("id")
	    name, _ := c.Text("name")
	    fmt.Println(id, name)
	}
	if err := c.Err(); err != nil {
	    return err
	}

GetResult and Execute return ErrResultOpen until the previous result has been
released with FreeResult. FreeResult is idempotent.

# Reading columns

Every getter family (Text, Int, Uint, Int64, Uint64, Float64, Bool, Value)
comes in three shapes:

  - by name: c.Int64("id"). The name map is built once per result; exact
    names win, then case-insensitive names with quotes removed. Unknown
    names return ErrUnknownColumn.
  - by index: c.Int64At(0). Out-of-range indexes return ErrColumnRange.
  - next column: c.NextInt64() reads at the sequential read pointer and
    advances it. FetchRow resets the pointer to 0.

Values carry the engine's storage class (NULL, INTEGER, FLOAT, TEXT, BLOB)
and convert between classes the way SQLite's column casts do. NULL is not an
error: typed getters return "", 0, 0.0 or false. When NULL must be told
apart, read a Value and check IsNull, or use Field with a default:

	nick, err := sqlw.Field(c, "nick", "anonymous")

# One-shot queries

Scalar, QueryText, QueryInt and QueryFloat64 open a result, read column 0 of
the first row and free the result again on every path. They return
sql.ErrNoRows when the query yields nothing.

# Errors

Engine failures are returned, recorded on the Engine (LastError,
LastErrno), and passed to the cursor's Reporter, which logs through
log/slog by default. Nothing is retried.

# Concurrency

A Cursor is not safe for concurrent use and must not be copied. Database is
safe for concurrent use, so goroutines should each create their own Cursor
over a shared Database. On single-connection pools (in-memory SQLite) keep
one open result per Database at a time.
*/
package sqlw
