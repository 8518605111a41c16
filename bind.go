package sqlw

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrNilParams is returned when named binding is requested with a nil
// pointer as the params value.
var ErrNilParams = errors.New("sqlw: named bind: nil params")

// ErrUnsupportedArg is returned when the params value is neither a struct
// nor a map with string keys.
var ErrUnsupportedArg = errors.New("sqlw: named bind: params must be struct or map[string]any")

// ErrDuplicateKey is returned when two struct fields resolve to the same
// parameter name (case-insensitive), e.g. via db:"name".
var ErrDuplicateKey = errors.New("sqlw: named bind: duplicate key from struct tags/fields")

// Bind resolves :name parameters in query from params, a struct or a
// map[string]any, and returns the query rewritten with ? placeholders plus
// the positional arguments.
//
//	q, args, err := sqlw.Bind(`SELECT * FROM t WHERE id IN (:ids) AND kind = :kind`,
//	    map[string]any{"ids": []int{1, 2, 3}, "kind": "a"})
//	// q    => SELECT * FROM t WHERE id IN (?,?,?) AND kind = ?
//	// args => [1 2 3 "a"]
//
// Names match case-insensitively. Slices and arrays expand to one
// placeholder per element ([]byte stays scalar); an empty slice becomes
// NULL. Quoted strings, quoted identifiers, comments and :: casts are
// skipped.
//
// Execute and GetResult call Bind themselves when passed a single struct or
// map argument.
func Bind(query string, params any) (string, []any, error) {
	if params == nil {
		return "", nil, ErrNilParams
	}
	toks, err := findNamedParams(query)
	if err != nil {
		return "", nil, err
	}
	if len(toks) == 0 {
		return query, nil, nil
	}
	lut, err := paramLookup(params)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.Grow(len(query))
	args := make([]any, 0, len(toks))
	last := 0
	for _, t := range toks {
		b.WriteString(query[last:t.start])
		val, ok := lut[strings.ToLower(t.name)]
		if !ok {
			return "", nil, fmt.Errorf("sqlw: named bind: missing value for :%s", t.name)
		}
		if rv := reflect.ValueOf(val); isList(rv) {
			if rv.Len() == 0 {
				b.WriteString("NULL")
			}
			for i := 0; i < rv.Len(); i++ {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteByte('?')
				args = append(args, rv.Index(i).Interface())
			}
		} else {
			b.WriteByte('?')
			args = append(args, val)
		}
		last = t.end
	}
	b.WriteString(query[last:])
	return b.String(), args, nil
}

// bindArgs applies Bind when args is a single struct or map; otherwise the
// arguments are already positional and pass through.
func bindArgs(query string, args []any) (string, []any, error) {
	if len(args) != 1 || !looksBindable(args[0]) {
		return query, args, nil
	}
	return Bind(query, args[0])
}

var (
	valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

func looksBindable(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type().Implements(valuerType) {
		return false
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return rv.Type() != timeType && !reflect.PointerTo(rv.Type()).Implements(valuerType)
	}
	return false
}

func isList(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

type nameToken struct {
	name       string
	start, end int
}

func findNamedParams(query string) ([]nameToken, error) {
	var out []nameToken
	for i := 0; i < len(query); {
		switch c := query[i]; {
		case c == '\'' || c == '"' || c == '`':
			j := skipQuoted(query, i+1, c)
			if j < 0 {
				return nil, fmt.Errorf("sqlw: unterminated %c-quoted text at offset %d", c, i)
			}
			i = j
		case strings.HasPrefix(query[i:], "--"):
			if j := strings.IndexByte(query[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = len(query)
			}
		case strings.HasPrefix(query[i:], "/*"):
			j := strings.Index(query[i+2:], "*/")
			if j < 0 {
				return nil, fmt.Errorf("sqlw: unterminated block comment at offset %d", i)
			}
			i += j + 4
		case strings.HasPrefix(query[i:], "::"):
			i += 2
		case c == ':':
			name, end := parseIdent(query, i+1)
			if name == "" {
				i++
				continue
			}
			out = append(out, nameToken{name: name, start: i, end: end})
			i = end
		default:
			i++
		}
	}
	return out, nil
}

// skipQuoted returns the offset just past the closing quote q, treating a
// doubled quote as an escape, or -1 if the text is unterminated.
func skipQuoted(s string, i int, q byte) int {
	for i < len(s) {
		if s[i] == q {
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return -1
}

func parseIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += w
	}
	return s[start:i], i
}

func paramLookup(params any) (map[string]any, error) {
	rv := reflect.ValueOf(params)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNilParams
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, ErrUnsupportedArg
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[strings.ToLower(iter.Key().String())] = iter.Value().Interface()
		}
		return m, nil
	case reflect.Struct:
		m := make(map[string]any)
		if err := addStructFields(m, rv); err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, ErrUnsupportedArg
}

func addStructFields(dst map[string]any, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		if f.Anonymous {
			fv := v.Field(i)
			for fv.Kind() == reflect.Pointer && !fv.IsNil() {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				if err := addStructFields(dst, fv); err != nil {
					return err
				}
				continue
			}
			if fv.Kind() == reflect.Pointer || f.PkgPath != "" {
				continue // nil embedded pointer, or unexported non-struct
			}
		}
		name, _, omit := parseTag(f.Tag.Get("db"))
		if omit {
			continue
		}
		if name == "" {
			name = f.Name
		}
		key := strings.ToLower(name)
		if _, exists := dst[key]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		dst[key] = v.Field(i).Interface()
	}
	return nil
}
