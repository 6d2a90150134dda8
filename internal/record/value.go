package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a sealed interface representing a typed field value.
// Only Text, Int, Float, Bool, Bytes and Missing implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Text is a string value.
type Text string

func (Text) value() {}

// Int is an integer value.
type Int int64

func (Int) value() {}

// Float is a floating point value.
type Float float64

func (Float) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Bytes is a binary value. Bytes and Text never compare equal, even when
// the text is the UTF-8 encoding of the bytes.
type Bytes []byte

func (Bytes) value() {}

// Missing marks an absent or NULL field.
type Missing struct{}

func (Missing) value() {}

// IsMissing reports whether v is Missing or nil.
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Missing)
	return ok
}

// FromDriver converts a value scanned from database/sql into a Value.
// Unknown driver types are rendered as Text.
func FromDriver(v any) Value {
	switch val := v.(type) {
	case nil:
		return Missing{}
	case int64:
		return Int(val)
	case int:
		return Int(int64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	case string:
		return Text(val)
	case []byte:
		// The driver may reuse its buffer; keep our own copy.
		b := make([]byte, len(val))
		copy(b, val)
		return Bytes(b)
	case time.Time:
		return Int(val.Unix())
	default:
		return Text(fmt.Sprint(val))
	}
}

// Param converts a Value into a driver parameter for positional binding.
func Param(v Value) any {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case Bytes:
		return []byte(val)
	default:
		return nil
	}
}

// AsString renders v the way SQLite casts a value to TEXT.
// Missing renders as the empty string.
func AsString(v Value) string {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatReal(float64(val))
	case Bool:
		if val {
			return "1"
		}
		return "0"
	case Bytes:
		return string(val)
	default:
		return ""
	}
}

// AsFloat returns the numeric value of v. Text is parsed with ParseNumber.
// Any other variant, or unparseable text, yields a *TypeError.
func AsFloat(v Value) (float64, error) {
	switch val := v.(type) {
	case Int:
		return float64(val), nil
	case Float:
		return float64(val), nil
	case Bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case Text:
		n, ok := ParseNumber(string(val))
		if !ok {
			return 0, &TypeError{Want: "number", Got: v}
		}
		return AsFloat(n)
	default:
		return 0, &TypeError{Want: "number", Got: v}
	}
}

// AsNumber returns v as an Int or Float value. Text is parsed with
// ParseNumber and Bool becomes Int 0/1.
func AsNumber(v Value) (Value, error) {
	switch val := v.(type) {
	case Int, Float:
		return val, nil
	case Bool:
		if val {
			return Int(1), nil
		}
		return Int(0), nil
	case Text:
		n, ok := ParseNumber(string(val))
		if !ok {
			return nil, &TypeError{Want: "number", Got: v}
		}
		return n, nil
	default:
		return nil, &TypeError{Want: "number", Got: v}
	}
}

// ParseNumber parses s as an integer, falling back to a float.
// Non-finite floats are rejected. The second result is false when s is
// neither.
func ParseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return Float(f), true
}

// formatReal renders f the way SQLite casts a REAL to TEXT ("%!.15g"):
// the mantissa always carries a decimal point, so 2 gives "2.0" and 1e20
// gives "1.0e+20". NaN is stored as NULL and renders as "".
func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	mantissa, exp, hasExp := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	if hasExp {
		return mantissa + "e" + exp
	}
	return mantissa
}
