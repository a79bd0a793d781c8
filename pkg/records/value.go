package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/roster/pkg/constants"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is an empty cell.
	KindNull Kind = iota
	// KindString is a text cell.
	KindString
	// KindNumber is a numeric cell.
	KindNumber
	// KindDate is a date or date-time cell.
	KindDate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a single cell: a string, number, date, or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Int returns a numeric value for n.
func Int(n int) Value { return Number(float64(n)) }

// Date returns a date value.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindDate, date: t}
}

// Of converts a scanned or decoded Go value into a Value.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case bool:
		if x {
			return String("true")
		}
		return String("false")
	case time.Time:
		return Date(x)
	default:
		return Value{}
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether v carries no usable content: null, whitespace,
// or one of the textual null markers produced by spreadsheet exports.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return IsNullMarker(v.str)
	default:
		return false
	}
}

// Str returns the raw string of a text value.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the float of a numeric value.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Time returns the time of a date value.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Text returns the display text of v. Null renders as the empty string,
// integral numbers render without a fractional part.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		h, m, s := v.date.Clock()
		if h == 0 && m == 0 && s == 0 && v.date.Nanosecond() == 0 {
			return v.date.Format(constants.DateFormat)
		}
		return v.date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// MarshalJSON renders null as null, numbers as JSON numbers and
// everything else as its display text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.Text())
		}
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.Text())
	}
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return v.Text(), nil
		}
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return int64(v.num), nil
		}
		return v.num, nil
	default:
		return v.Text(), nil
	}
}

// UnmarshalJSON accepts null, numbers and strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Of(raw)
	return nil
}

// IsNullMarker reports whether s is empty after trimming or spells a null
// marker such as "nan", "none" or "null".
func IsNullMarker(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return true
	}
	switch strings.ToLower(t) {
	case "nan", "none", "null":
		return true
	}
	return false
}
