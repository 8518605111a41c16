package sqlw

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// StorageClass is the engine's runtime tag for a column value, independent
// of the declared column type.
type StorageClass uint8

const (
	Null StorageClass = iota
	Integer
	Float
	Text
	Blob
)

func (c StorageClass) String() string {
	switch c {
	case Null:
		return "NULL"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Text:
		return "TEXT"
	case Blob:
		return "BLOB"
	default:
		return "StorageClass(" + strconv.Itoa(int(c)) + ")"
	}
}

// Value is a single column value tagged with its storage class. The zero
// Value is NULL.
//
// Accessors convert between classes the way the engine's column casts do:
// NULL reads as 0, 0.0, "" or false, floats truncate toward zero, and text
// is parsed for its leading numeric prefix.
type Value struct {
	class    StorageClass
	i        int64
	unsigned bool // i holds an unsigned value above math.MaxInt64
	f        float64
	s        string
	b        []byte
}

// IntValue returns an INTEGER value.
func IntValue(v int64) Value { return Value{class: Integer, i: v} }

// UintValue returns an INTEGER value for an unsigned integer. Values above
// math.MaxInt64 keep their full magnitude for Uint64, Float64 and Text;
// Int64 saturates.
func UintValue(v uint64) Value {
	if v <= math.MaxInt64 {
		return IntValue(int64(v))
	}
	return Value{class: Integer, i: int64(v), unsigned: true}
}

// FloatValue returns a FLOAT value.
func FloatValue(v float64) Value { return Value{class: Float, f: v} }

// TextValue returns a TEXT value.
func TextValue(v string) Value { return Value{class: Text, s: v} }

// BlobValue returns a BLOB value. A nil slice yields NULL.
func BlobValue(v []byte) Value {
	if v == nil {
		return Value{}
	}
	return Value{class: Blob, b: v}
}

// ValueOf classifies a database/sql driver value.
func ValueOf(src any) Value {
	switch v := src.(type) {
	case nil:
		return Value{}
	case int64:
		return IntValue(v)
	case int:
		return IntValue(int64(v))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case uint:
		return UintValue(uint64(v))
	case uint8:
		return IntValue(int64(v))
	case uint16:
		return IntValue(int64(v))
	case uint32:
		return IntValue(int64(v))
	case uint64:
		return UintValue(v)
	case bool:
		if v {
			return IntValue(1)
		}
		return IntValue(0)
	case float64:
		return FloatValue(v)
	case float32:
		return FloatValue(float64(v))
	case string:
		return TextValue(v)
	case []byte:
		return BlobValue(v)
	case time.Time:
		return TextValue(v.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return TextValue(v.String())
	default:
		return TextValue(fmt.Sprint(v))
	}
}

// Class returns the storage class.
func (v Value) Class() StorageClass { return v.class }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.class == Null }

// Int64 returns v as a signed 64-bit integer.
func (v Value) Int64() int64 {
	switch v.class {
	case Integer:
		if v.unsigned {
			return math.MaxInt64
		}
		return v.i
	case Float:
		return truncFloat(v.f)
	case Text:
		return parseInt(v.s)
	case Blob:
		return parseInt(string(v.b))
	}
	return 0
}

// Uint64 returns v as an unsigned 64-bit integer. Text is parsed over the
// full unsigned range; other classes reinterpret the signed value.
func (v Value) Uint64() uint64 {
	switch v.class {
	case Integer:
		return uint64(v.i)
	case Text, Blob:
		s := strings.TrimSpace(v.Text())
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u
		}
	}
	return uint64(v.Int64())
}

// Float64 returns v as a double.
func (v Value) Float64() float64 {
	switch v.class {
	case Integer:
		if v.unsigned {
			return float64(uint64(v.i))
		}
		return float64(v.i)
	case Float:
		return v.f
	case Text:
		return parseFloat(v.s)
	case Blob:
		return parseFloat(string(v.b))
	}
	return 0
}

// Text returns v as a string. NULL is "".
func (v Value) Text() string {
	switch v.class {
	case Integer:
		if v.unsigned {
			return strconv.FormatUint(uint64(v.i), 10)
		}
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case Text:
		return v.s
	case Blob:
		return string(v.b)
	}
	return ""
}

// Bytes returns v as a byte slice. NULL is nil.
func (v Value) Bytes() []byte {
	switch v.class {
	case Null:
		return nil
	case Blob:
		return bytes.Clone(v.b)
	}
	return []byte(v.Text())
}

// Bool returns v as a boolean: any non-zero number is true, not only 1, so
// 2 and -1 read as true. Text accepts the strconv.ParseBool spellings and
// otherwise falls back to its numeric value.
func (v Value) Bool() bool {
	switch v.class {
	case Integer:
		return v.i != 0
	case Float:
		return v.f != 0
	case Text, Blob:
		if b, err := strconv.ParseBool(strings.TrimSpace(v.Text())); err == nil {
			return b
		}
		return v.Float64() != 0
	}
	return false
}

// Any returns the payload as a plain Go value: nil, int64, float64, string
// or []byte. Unsigned integers above math.MaxInt64 come back as uint64.
func (v Value) Any() any {
	switch v.class {
	case Integer:
		if v.unsigned {
			return uint64(v.i)
		}
		return v.i
	case Float:
		return v.f
	case Text:
		return v.s
	case Blob:
		return bytes.Clone(v.b)
	}
	return nil
}

// String renders v for display; NULL renders as "NULL".
func (v Value) String() string {
	if v.class == Null {
		return "NULL"
	}
	return v.Text()
}

func truncFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// numericPrefix returns the longest prefix of s (after leading spaces) that
// looks like a decimal number, and whether it has a fraction or exponent.
func numericPrefix(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	isFloat := false
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			digits++
		}
		if digits > 0 {
			i, isFloat = j, true
		}
	}
	if digits == 0 {
		return "", false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i, isFloat = k, true
		}
	}
	return s[:i], isFloat
}

func parseInt(s string) int64 {
	p, isFloat := numericPrefix(s)
	if p == "" {
		return 0
	}
	if !isFloat {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			return n
		}
	}
	f, _ := strconv.ParseFloat(p, 64)
	return truncFloat(f)
}

func parseFloat(s string) float64 {
	p, _ := numericPrefix(s)
	if p == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(p, 64)
	return f
}

// formatFloat keeps a fractional marker on integral values so 2.0 reads
// back as "2.0", not "2".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}
