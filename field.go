package sqlw

import (
	"fmt"
	"reflect"
)

// Primitive lists the types Field and Scalar can convert a column into.
// Named types over these kinds are accepted too.
type Primitive interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~string | ~bool | ~[]byte
}

// Field returns the named column of the current row converted to T, or def
// when the stored value is NULL. The type parameter picks the conversion:
//
//	age, err := sqlw.Field(c, "age", -1)          // int
//	nick, err := sqlw.Field(c, "nick", "anonymous") // string
//	ratio, err := sqlw.Field[float32](c, "ratio", 0)
//
// An unknown name returns ErrUnknownColumn, never def.
func Field[T Primitive](c *Cursor, name string, def T) (T, error) {
	v, err := c.Value(name)
	if err != nil {
		var zero T
		return zero, err
	}
	if v.IsNull() {
		return def, nil
	}
	return As[T](v)
}

// FieldAt is Field by column index.
func FieldAt[T Primitive](c *Cursor, i int, def T) (T, error) {
	v, err := c.ValueAt(i)
	if err != nil {
		var zero T
		return zero, err
	}
	if v.IsNull() {
		return def, nil
	}
	return As[T](v)
}

// As converts v to T. NULL converts to the zero value.
func As[T Primitive](v Value) (T, error) {
	var out T
	if err := assignValue(reflect.ValueOf(&out).Elem(), v); err != nil {
		return out, err
	}
	return out, nil
}

// assignValue stores v into dst according to dst's kind. dst must be
// settable.
func assignValue(dst reflect.Value, v Value) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(v.Int64())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		dst.SetUint(v.Uint64())
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(v.Float64())
	case reflect.String:
		dst.SetString(v.Text())
	case reflect.Bool:
		dst.SetBool(v.Bool())
	case reflect.Slice:
		if dst.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("sqlw: cannot assign %s to %s", v.Class(), dst.Type())
		}
		dst.SetBytes(v.Bytes())
	case reflect.Pointer:
		if v.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		p := reflect.New(dst.Type().Elem())
		if err := assignValue(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return fmt.Errorf("sqlw: cannot assign %s to %s", v.Class(), dst.Type())
		}
		if a := v.Any(); a != nil {
			dst.Set(reflect.ValueOf(a))
		} else {
			dst.Set(reflect.Zero(dst.Type()))
		}
	default:
		return fmt.Errorf("sqlw: cannot assign %s to %s", v.Class(), dst.Type())
	}
	return nil
}
