package sqlw

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNotStruct is returned by ScanStruct when dst is not a non-nil pointer
// to a struct.
var ErrNotStruct = errors.New("sqlw: scan destination must be a non-nil pointer to struct")

// structIndexCache maps reflect.Type -> *fieldIndex.
var structIndexCache sync.Map

type fieldIndex struct {
	byName map[string][]int // lower-case column name -> field index path
}

// Scan copies the columns of the current row into dest, one pointer per
// column in order. A destination implementing sql.Scanner receives the raw
// value; other pointers get the converted value, with nil pointers for NULL
// when the destination is a pointer-to-pointer.
func (c *Cursor) Scan(dest ...any) error {
	for i, d := range dest {
		v, err := c.ValueAt(i)
		if err != nil {
			return err
		}
		if err := scanInto(d, v); err != nil {
			return fmt.Errorf("sqlw: column %d: %w", i, err)
		}
	}
	return nil
}

// ScanStruct maps the current row into the struct dst points to. Fields bind
// by `db:"name"` tag, otherwise by case-insensitive field name; `db:"-"`
// skips a field and `db:",inline"` flattens a nested struct. Columns without
// a field are ignored and fields without a column keep their value.
func (c *Cursor) ScanStruct(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStruct
	}
	if c.stmt == nil {
		return ErrNoResult
	}
	if !c.row {
		return ErrNoRow
	}
	root := rv.Elem()
	idx := structIndex(root.Type())
	for i, col := range c.cols {
		path, ok := idx.byName[normalizeColAscii(col)]
		if !ok {
			continue
		}
		f := fieldByPathAlloc(root, path)
		if err := scanInto(f.Addr().Interface(), c.stmt.Column(i)); err != nil {
			return fmt.Errorf("sqlw: column %q: %w", col, err)
		}
	}
	return nil
}

func scanInto(dst any, v Value) error {
	if s, ok := dst.(sql.Scanner); ok {
		return s.Scan(v.Any())
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("destination %T is not a non-nil pointer", dst)
	}
	return assignValue(rv.Elem(), v)
}

func structIndex(rt reflect.Type) *fieldIndex {
	if v, ok := structIndexCache.Load(rt); ok {
		return v.(*fieldIndex)
	}
	fi := buildStructIndex(rt)
	v, _ := structIndexCache.LoadOrStore(rt, fi)
	return v.(*fieldIndex)
}

func buildStructIndex(rt reflect.Type) *fieldIndex {
	idx := &fieldIndex{byName: make(map[string][]int)}

	var walk func(t reflect.Type, base []int)
	walk = func(t reflect.Type, base []int) {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			// Exported fields of unexported embedded structs stay settable;
			// an unexported embedded pointer cannot be allocated.
			if sf.PkgPath != "" && (!sf.Anonymous || sf.Type.Kind() == reflect.Pointer) {
				continue
			}
			tag := sf.Tag.Get("db")
			name, inline, omit := parseTag(tag)
			if omit {
				continue
			}
			path := append(append([]int(nil), base...), i)
			if inline || (sf.Anonymous && tag == "") {
				if isStructish(sf.Type) && !implementsScanner(sf.Type) {
					walk(sf.Type, path)
					continue
				}
			}
			if sf.PkgPath != "" {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			lc := toLowerAscii(name)
			if _, ok := idx.byName[lc]; !ok {
				idx.byName[lc] = path
			}
		}
	}
	walk(rt, nil)
	return idx
}

// parseTag supports "-", "col", ",inline", "col,inline" and "inline,col".
func parseTag(tag string) (name string, inline bool, omit bool) {
	if tag == "-" {
		return "", false, true
	}
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i == len(tag) || tag[i] == ',' {
			part := tag[start:i]
			if part == "inline" {
				inline = true
			} else if part != "" && name == "" {
				name = part
			}
			start = i + 1
		}
	}
	return name, inline, false
}

func isStructish(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func implementsScanner(t reflect.Type) bool {
	scanner := reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	return t.Implements(scanner) || reflect.PointerTo(t).Implements(scanner)
}

// fieldByPathAlloc walks fpath, allocating nil embedded pointers on the way
// so the final field is addressable.
func fieldByPathAlloc(root reflect.Value, fpath []int) reflect.Value {
	v := root
	for _, i := range fpath {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}
