package sqlw

import (
	"context"
	"database/sql"
)

// Scalar runs query on c and returns column 0 of the first row converted to
// T. The cursor must be idle; Scalar opens a result and frees it again
// before returning, on success and on error alike.
//
// It returns [sql.ErrNoRows] when the query yields no rows. Extra rows and
// columns are ignored; a NULL first column converts to the zero value of T.
//
// Example:
//
//	c := sqlw.NewCursor(db)
//	n, err := sqlw.Scalar[int64](ctx, c, `SELECT count(*) FROM users WHERE active = ?`, true)
//	if err != nil {
//	    return err
//	}
func Scalar[T Primitive](ctx context.Context, c *Cursor, query string, args ...any) (out T, err error) {
	if _, err = c.GetResult(ctx, query, args...); err != nil {
		return out, err
	}
	defer c.FreeResult()

	if !c.FetchRow() {
		if ferr := c.Err(); ferr != nil {
			return out, ferr
		}
		return out, sql.ErrNoRows
	}
	v, err := c.ValueAt(0)
	if err != nil {
		return out, err
	}
	return As[T](v)
}

// QueryText runs query and returns its first column of its first row as a
// string.
func (c *Cursor) QueryText(ctx context.Context, query string, args ...any) (string, error) {
	return Scalar[string](ctx, c, query, args...)
}

// QueryInt runs query and returns its first column of its first row as an
// int.
func (c *Cursor) QueryInt(ctx context.Context, query string, args ...any) (int, error) {
	return Scalar[int](ctx, c, query, args...)
}

// QueryFloat64 runs query and returns its first column of its first row as
// a float64.
func (c *Cursor) QueryFloat64(ctx context.Context, query string, args ...any) (float64, error) {
	return Scalar[float64](ctx, c, query, args...)
}
