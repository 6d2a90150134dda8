package record

import "fmt"

// TypeError reports a value whose variant does not fit the requested use.
type TypeError struct {
	// Want names the expected variant, e.g. "number".
	Want string

	// Got is the offending value.
	Got Value
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, Kind(e.Got))
}

// Kind names the variant of v.
func Kind(v Value) string {
	switch v.(type) {
	case Text:
		return "text"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Bytes:
		return "bytes"
	default:
		return "missing"
	}
}
