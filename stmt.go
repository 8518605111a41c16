package sqlw

import (
	"database/sql"
	"strconv"
	"strings"
	"unicode/utf8"
)

// rowsStmt adapts *sql.Rows to Stmt. Each Step scans the whole row into
// raw values; Column then classifies them.
type rowsStmt struct {
	db    *Database
	rows  *sql.Rows
	cols  []string
	hints []StorageClass // from the declared column types; Null when unknown
	raw   []any
	vals  []Value
	done  bool
}

func (s *rowsStmt) Step() (bool, error) {
	if s.done {
		return false, nil
	}
	if !s.rows.Next() {
		s.done = true
		s.vals = s.vals[:0]
		if err := s.rows.Err(); err != nil {
			s.db.record(err)
			return false, err
		}
		return false, nil
	}
	if s.raw == nil {
		s.raw = make([]any, len(s.cols))
		s.vals = make([]Value, 0, len(s.cols))
	}
	dest := make([]any, len(s.raw))
	for i := range s.raw {
		s.raw[i] = nil
		dest[i] = &s.raw[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		s.done = true
		s.db.record(err)
		return false, err
	}
	s.vals = s.vals[:0]
	for i, r := range s.raw {
		hint := Null
		if i < len(s.hints) {
			hint = s.hints[i]
		}
		s.vals = append(s.vals, columnValue(r, hint))
	}
	return true, nil
}

func (s *rowsStmt) Columns() []string { return append([]string(nil), s.cols...) }

func (s *rowsStmt) Column(i int) Value {
	if i < 0 || i >= len(s.vals) {
		return Value{}
	}
	return s.vals[i]
}

func (s *rowsStmt) Finalize() error {
	s.done = true
	return s.rows.Close()
}

// columnValue classifies raw like ValueOf, except that bytes from a column
// declared as text or number take that class. Drivers such as MySQL's send
// every value of a plain query as bytes. Invalid UTF-8 in a text column
// stays a BLOB.
func columnValue(raw any, hint StorageClass) Value {
	b, ok := raw.([]byte)
	if !ok || b == nil {
		return ValueOf(raw)
	}
	switch hint {
	case Text:
		if utf8.Valid(b) {
			return TextValue(string(b))
		}
	case Integer:
		if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return IntValue(i)
		}
		if u, err := strconv.ParseUint(string(b), 10, 64); err == nil {
			return UintValue(u)
		}
		return TextValue(string(b))
	case Float:
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return FloatValue(f)
		}
		return TextValue(string(b))
	}
	return BlobValue(b)
}

// classHint maps a driver's DatabaseTypeName to the class its byte values
// should take. Unknown and binary types give Null or Blob.
func classHint(typeName string) StorageClass {
	t := strings.ToUpper(strings.TrimSpace(typeName))
	t = strings.TrimPrefix(t, "UNSIGNED ")
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "":
		return Null
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT", "YEAR", "HUGEINT", "UBIGINT", "UINTEGER":
		return Integer
	case "FLOAT", "DOUBLE", "REAL":
		return Float
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "BIT", "GEOMETRY", "BYTEA":
		return Blob
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "NCHAR", "NVARCHAR",
		"JSON", "ENUM", "SET", "DATE", "DATETIME", "TIMESTAMP", "TIME", "DECIMAL", "NUMERIC", "UUID":
		return Text
	}
	return Null
}
