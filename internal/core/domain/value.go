package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldValue is an extracted value: either a single string or an ordered
// list of strings. The zero value is an empty scalar.
type FieldValue struct {
	text  string
	items []string
	list  bool
}

// Text returns a scalar value.
func Text(s string) FieldValue {
	return FieldValue{text: s}
}

// List returns a list value holding a copy of items.
func List(items ...string) FieldValue {
	return FieldValue{items: append([]string{}, items...), list: true}
}

// IsList reports whether the value is list-valued.
func (v FieldValue) IsList() bool {
	return v.list
}

// Items returns the list items. A non-blank scalar is returned as a
// single-item list so callers can treat both shapes uniformly.
func (v FieldValue) Items() []string {
	if v.list {
		return append([]string{}, v.items...)
	}
	if strings.TrimSpace(v.text) == "" {
		return nil
	}
	return []string{v.text}
}

// String returns the scalar text, or the list items joined by ", ".
func (v FieldValue) String() string {
	if v.list {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// IsEmpty reports whether the value carries no non-blank text.
func (v FieldValue) IsEmpty() bool {
	if !v.list {
		return strings.TrimSpace(v.text) == ""
	}
	for _, item := range v.items {
		if strings.TrimSpace(item) != "" {
			return false
		}
	}
	return true
}

// Equal reports whether two values have the same shape and content.
func (v FieldValue) Equal(o FieldValue) bool {
	if v.list != o.list {
		return false
	}
	if !v.list {
		return v.text == o.text
	}
	if len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes a scalar as a JSON string and a list as an array.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.list {
		return json.Marshal(v.items)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON string, an array of strings, or a number.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*v = List(items...)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Text(n.String())
		return nil
	}
	return fmt.Errorf("%w: field value must be a string or a list of strings", ErrInvalidInput)
}

// RawField is one named entry in a strategy's output.
type RawField struct {
	Name  string
	Value FieldValue
}

// RawFields is the ordered field mapping a strategy produces.
// Names may be canonical field names or label variants that the
// normaliser later folds into canonical fields. Absent fields are
// simply not present; a present entry may still hold blank text.
type RawFields []RawField

// Get returns the value stored under name.
func (r RawFields) Get(name string) (FieldValue, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return FieldValue{}, false
}

// Set replaces the value under name, or appends it when new.
func (r *RawFields) Set(name string, v FieldValue) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = v
			return
		}
	}
	*r = append(*r, RawField{Name: name, Value: v})
}

// Names returns the entry names in insertion order.
func (r RawFields) Names() []string {
	names := make([]string, 0, len(r))
	for _, f := range r {
		names = append(names, f.Name)
	}
	return names
}

// Filled counts entries whose value carries non-blank text.
func (r RawFields) Filled() int {
	n := 0
	for _, f := range r {
		if !f.Value.IsEmpty() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (r RawFields) Clone() RawFields {
	if r == nil {
		return nil
	}
	out := make(RawFields, len(r))
	for i, f := range r {
		out[i] = RawField{Name: f.Name, Value: f.Value}
		if f.Value.list {
			out[i].Value = List(f.Value.items...)
		}
	}
	return out
}

// Equal reports whether both mappings hold the same entries in the same order.
func (r RawFields) Equal(o RawFields) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i].Name != o[i].Name || !r[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}
