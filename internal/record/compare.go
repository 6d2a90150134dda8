package record

import (
	"bytes"
	"strings"
)

// storage classes in SQLite's cross-type sort order
const (
	classNull = iota
	classNumeric
	classText
	classBlob
)

func class(v Value) int {
	switch v.(type) {
	case Int, Float, Bool:
		return classNumeric
	case Text:
		return classText
	case Bytes:
		return classBlob
	default:
		return classNull
	}
}

// Compare orders two values the way SQLite orders them in an ORDER BY with
// BINARY collation: NULL < numbers < text < blobs. It returns -1, 0 or 1.
func Compare(a, b Value) int {
	ca, cb := class(a), class(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}

	switch ca {
	case classNumeric:
		return compareNumeric(a, b)
	case classText:
		return strings.Compare(string(a.(Text)), string(b.(Text)))
	case classBlob:
		return bytes.Compare(a.(Bytes), b.(Bytes))
	default:
		return 0
	}
}

func compareNumeric(a, b Value) int {
	ai, aInt := asInt(a)
	bi, bInt := asInt(b)
	if aInt && bInt {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}

	af, _ := AsFloat(a)
	bf, _ := AsFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func asInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case Int:
		return int64(val), true
	case Bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Equal reports whether two values are equal under SQLite's "=" operator:
// numbers compare numerically, text and blobs byte-wise, and Missing is
// never equal to anything, itself included.
func Equal(a, b Value) bool {
	if IsMissing(a) || IsMissing(b) {
		return false
	}
	if class(a) != class(b) {
		return false
	}
	return Compare(a, b) == 0
}
