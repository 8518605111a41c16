package sqlw

// Typed getters. Each family comes in three shapes: by column name, by
// column index, and Next*, which reads the column at the sequential read
// pointer and advances it. NULL reads as the zero value of the type; use
// Value or Field to tell NULL apart.

// Text returns the named column as a string.
func (c *Cursor) Text(name string) (string, error) {
	v, err := c.Value(name)
	return v.Text(), err
}

// TextAt returns column i as a string.
func (c *Cursor) TextAt(i int) (string, error) {
	v, err := c.ValueAt(i)
	return v.Text(), err
}

// NextText returns the next column as a string.
func (c *Cursor) NextText() (string, error) {
	v, err := c.NextValue()
	return v.Text(), err
}

// Int returns the named column as an int.
func (c *Cursor) Int(name string) (int, error) {
	v, err := c.Value(name)
	return int(v.Int64()), err
}

// IntAt returns column i as an int.
func (c *Cursor) IntAt(i int) (int, error) {
	v, err := c.ValueAt(i)
	return int(v.Int64()), err
}

// NextInt returns the next column as an int.
func (c *Cursor) NextInt() (int, error) {
	v, err := c.NextValue()
	return int(v.Int64()), err
}

// Uint returns the named column as a uint.
func (c *Cursor) Uint(name string) (uint, error) {
	v, err := c.Value(name)
	return uint(v.Uint64()), err
}

// UintAt returns column i as a uint.
func (c *Cursor) UintAt(i int) (uint, error) {
	v, err := c.ValueAt(i)
	return uint(v.Uint64()), err
}

// NextUint returns the next column as a uint.
func (c *Cursor) NextUint() (uint, error) {
	v, err := c.NextValue()
	return uint(v.Uint64()), err
}

// Int64 returns the named column as an int64.
func (c *Cursor) Int64(name string) (int64, error) {
	v, err := c.Value(name)
	return v.Int64(), err
}

// Int64At returns column i as an int64.
func (c *Cursor) Int64At(i int) (int64, error) {
	v, err := c.ValueAt(i)
	return v.Int64(), err
}

// NextInt64 returns the next column as an int64.
func (c *Cursor) NextInt64() (int64, error) {
	v, err := c.NextValue()
	return v.Int64(), err
}

// Uint64 returns the named column as a uint64.
func (c *Cursor) Uint64(name string) (uint64, error) {
	v, err := c.Value(name)
	return v.Uint64(), err
}

// Uint64At returns column i as a uint64.
func (c *Cursor) Uint64At(i int) (uint64, error) {
	v, err := c.ValueAt(i)
	return v.Uint64(), err
}

// NextUint64 returns the next column as a uint64.
func (c *Cursor) NextUint64() (uint64, error) {
	v, err := c.NextValue()
	return v.Uint64(), err
}

// Float64 returns the named column as a float64.
func (c *Cursor) Float64(name string) (float64, error) {
	v, err := c.Value(name)
	return v.Float64(), err
}

// Float64At returns column i as a float64.
func (c *Cursor) Float64At(i int) (float64, error) {
	v, err := c.ValueAt(i)
	return v.Float64(), err
}

// NextFloat64 returns the next column as a float64.
func (c *Cursor) NextFloat64() (float64, error) {
	v, err := c.NextValue()
	return v.Float64(), err
}

// Bool returns the named column as a bool. Any non-zero number is true; see
// Value.Bool.
func (c *Cursor) Bool(name string) (bool, error) {
	v, err := c.Value(name)
	return v.Bool(), err
}

// BoolAt returns column i as a bool.
func (c *Cursor) BoolAt(i int) (bool, error) {
	v, err := c.ValueAt(i)
	return v.Bool(), err
}

// NextBool returns the next column as a bool.
func (c *Cursor) NextBool() (bool, error) {
	v, err := c.NextValue()
	return v.Bool(), err
}
