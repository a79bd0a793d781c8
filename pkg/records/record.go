package records

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// Record is an ordered mapping from field name to Value.
type Record struct {
	fields []string
	values map[string]Value
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// FromPairs builds a record from alternating field names and values.
// It is mostly useful in tests.
func FromPairs(pairs ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		r.Set(name, Of(pairs[i+1]))
	}
	return r
}

// Get returns the value stored under name, or null.
func (r *Record) Get(name string) Value {
	if r == nil || name == "" {
		return Value{}
	}
	return r.values[name]
}

// Lookup returns the value under name and whether the field exists.
func (r *Record) Lookup(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the record has a field called name.
func (r *Record) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Set stores v under name, appending the field if it is new.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = v
}

// Fields returns the field names in insertion order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// NonBlankCount counts fields holding a non-blank value.
func (r *Record) NonBlankCount() int {
	n := 0
	for _, f := range r.fields {
		if !r.values[f].IsBlank() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := &Record{
		fields: make([]string, len(r.fields)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(c.fields, r.fields)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON renders the record as a JSON object preserving field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := r.values[f].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the record as an ordered mapping.
func (r *Record) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(r.fields))
	for _, f := range r.fields {
		v, _ := r.values[f].MarshalYAML()
		out = append(out, yaml.MapItem{Key: f, Value: v})
	}
	return out, nil
}
