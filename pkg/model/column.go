// pkg/model/column.go
package model

// Column holds the values of one dataset attribute. Values are stored
// either as a plain slice or, after Encode, as a dictionary of distinct
// string levels with per-record codes. The encoded form trades lookup
// indirection for memory on low-cardinality columns.
type Column struct {
	Name string
	Kind Kind

	values []any

	// dictionary-encoded representation; values is nil when set
	levels []string
	codes  []int32
}

// missingCode marks a missing value in the encoded representation
const missingCode int32 = -1

// NewColumn creates a column from a value slice. A nil element means the
// value is missing.
func NewColumn(name string, kind Kind, values []any) *Column {
	return &Column{
		Name:   name,
		Kind:   kind,
		values: values,
	}
}

// Len returns the number of records in the column
func (c *Column) Len() int {
	if c.IsEncoded() {
		return len(c.codes)
	}
	return len(c.values)
}

// IsEncoded reports whether the column is dictionary-encoded
func (c *Column) IsEncoded() bool {
	return c.values == nil && c.codes != nil
}

// Value returns the value of record i, decoding transparently.
// Returns nil for a missing value.
func (c *Column) Value(i int) any {
	if c.IsEncoded() {
		code := c.codes[i]
		if code == missingCode {
			return nil
		}
		return c.levels[code]
	}
	return c.values[i]
}

// Values materializes all values as a plain slice, decoding if needed
func (c *Column) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

// Levels returns the distinct values of an encoded column, in first-seen
// order. Nil for an unencoded column.
func (c *Column) Levels() []string {
	return c.levels
}

// Encode converts the column to its dictionary representation. Only
// string-kinded columns can be encoded; anything else is left unchanged.
// Encoding an already-encoded column is a no-op.
func (c *Column) Encode() {
	if c.IsEncoded() || c.Kind != KindString {
		return
	}

	levelIndex := make(map[string]int32)
	levels := make([]string, 0)
	codes := make([]int32, len(c.values))

	for i, v := range c.values {
		if v == nil {
			codes[i] = missingCode
			continue
		}
		s, ok := v.(string)
		if !ok {
			// mixed content, refuse to encode
			return
		}
		code, seen := levelIndex[s]
		if !seen {
			code = int32(len(levels))
			levelIndex[s] = code
			levels = append(levels, s)
		}
		codes[i] = code
	}

	c.values = nil
	c.levels = levels
	c.codes = codes
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	out := &Column{
		Name: c.Name,
		Kind: c.Kind,
	}
	if c.IsEncoded() {
		out.levels = append([]string(nil), c.levels...)
		out.codes = append([]int32(nil), c.codes...)
		return out
	}
	out.values = append([]any(nil), c.values...)
	return out
}
