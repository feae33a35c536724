package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Choice is a profile answer: either a single value or an ordered list of
// unique values. Backend payloads carry some fields as a string and others
// as an array; Choice absorbs both once at the boundary.
type Choice struct {
	values []string
	list   bool
}

// Scalar returns a single-value Choice. Surrounding whitespace is trimmed.
func Scalar(v string) Choice {
	v = strings.TrimSpace(v)
	if v == "" {
		return Choice{}
	}
	return Choice{values: []string{v}}
}

// List returns a list Choice. Blank entries are dropped and duplicates keep
// their first position.
func List(vs ...string) Choice {
	out := make([]string, 0, len(vs))
	seen := make(map[string]bool, len(vs))
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return Choice{values: out, list: true}
}

func (c Choice) IsList() bool  { return c.list }
func (c Choice) IsEmpty() bool { return len(c.values) == 0 }

// Values returns a copy of the held values.
func (c Choice) Values() []string {
	return append([]string(nil), c.values...)
}

// String joins list values with ", " for display.
func (c Choice) String() string {
	return strings.Join(c.values, ", ")
}

// As converts c to the given shape. A list becomes a scalar by joining with
// "," (the backend's separator for multi-valued scalar fields); a scalar
// becomes a one-element list.
func (c Choice) As(shape Shape) Choice {
	switch shape {
	case ShapeList:
		if c.list {
			return c
		}
		return List(c.values...)
	default:
		if !c.list {
			return c
		}
		return Scalar(strings.Join(c.values, ","))
	}
}

// Equal reports whether both choices have the same shape and values.
func (c Choice) Equal(o Choice) bool {
	if c.list != o.list || len(c.values) != len(o.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (c Choice) MarshalJSON() ([]byte, error) {
	if c.list {
		vs := c.values
		if vs == nil {
			vs = []string{}
		}
		return json.Marshal(vs)
	}
	if len(c.values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(c.values[0])
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Choice{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var vs []string
		if err := json.Unmarshal(data, &vs); err != nil {
			return fmt.Errorf("decoding choice list: %w", err)
		}
		*c = List(vs...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding choice value: %w", err)
		}
		*c = Scalar(s)
		return nil
	}
}
