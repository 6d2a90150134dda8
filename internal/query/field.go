package query

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/dbcore/internal/record"
)

// likeEscape is the escape character declared in compiled LIKE clauses.
const likeEscape = `\`

// MatchQuery looks for exact matches in a field.
//
// Semantics:
//
//	<field> = ?
//
// Text values compare byte-wise with the pattern. Numeric values compare
// numerically with the pattern parsed as a number, which is what SQLite does
// when a text parameter meets a column with numeric affinity. Missing and
// binary values never match.
type MatchQuery struct {
	FieldQuery
	text string // NFC-normalized pattern
}

func (*MatchQuery) queryNode() {}

// NewMatchQuery creates an exact match leaf.
func NewMatchQuery(field, pattern string, fast bool) (*MatchQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	return &MatchQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast},
		text:       norm.NFC.String(pattern),
	}, nil
}

// Clause implements Query.
func (q *MatchQuery) Clause() (Clause, bool) {
	return q.fast(Clause{
		SQL:    q.Field + " = ?",
		Params: []any{q.text},
	})
}

// Match implements Query.
func (q *MatchQuery) Match(r record.FieldAccessible) bool {
	return equalsText(r.Get(q.Field), q.text)
}

func equalsText(v record.Value, pattern string) bool {
	switch val := v.(type) {
	case record.Text:
		return string(val) == pattern
	case record.Int, record.Float, record.Bool:
		n, ok := record.ParseNumber(pattern)
		return ok && record.Compare(val, n) == 0
	default:
		return false
	}
}

// SubstringQuery matches a case-insensitive substring of a field.
//
// Semantics:
//
//	<field> LIKE '%' || escaped(pattern) || '%' ESCAPE '\'
//
// The LIKE metacharacters in the pattern (\, % and _) are escaped before
// wrapping, so they match literally. Case folding is ASCII-only, matching
// SQLite's built-in LIKE.
type SubstringQuery struct {
	FieldQuery
	folded string
}

func (*SubstringQuery) queryNode() {}

// NewSubstringQuery creates a substring leaf.
func NewSubstringQuery(field, pattern string, fast bool) (*SubstringQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	return &SubstringQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast},
		folded:     foldASCII(norm.NFC.String(pattern)),
	}, nil
}

// Clause implements Query.
func (q *SubstringQuery) Clause() (Clause, bool) {
	search := "%" + EscapeLike(norm.NFC.String(q.Pattern)) + "%"
	return q.fast(Clause{
		SQL:    fmt.Sprintf("%s LIKE ? ESCAPE '%s'", q.Field, likeEscape),
		Params: []any{search},
	})
}

// Match implements Query.
func (q *SubstringQuery) Match(r record.FieldAccessible) bool {
	v := r.Get(q.Field)
	if record.IsMissing(v) {
		return false
	}
	return strings.Contains(foldASCII(record.AsString(v)), q.folded)
}

// likeReplacer escapes the backslash first so that escapes added for % and
// _ are not escaped again.
var likeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes LIKE metacharacters with a backslash.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// RegexpQuery matches a regular expression against a field.
//
// It never compiles: the store has no regular expression operator. An
// invalid pattern matches nothing.
type RegexpQuery struct {
	FieldQuery
	re *regexp.Regexp // nil when the pattern does not compile
}

func (*RegexpQuery) queryNode() {}

// NewRegexpQuery creates a regular expression leaf. An invalid pattern is
// not an error.
func NewRegexpQuery(field, pattern string, fast bool) (*RegexpQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	return &RegexpQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast},
		re:         re,
	}, nil
}

// Valid reports whether the pattern compiled.
func (q *RegexpQuery) Valid() bool {
	return q.re != nil
}

// Clause implements Query. It always refuses.
func (q *RegexpQuery) Clause() (Clause, bool) {
	return Clause{}, false
}

// Match implements Query. Missing values are searched as the empty string.
func (q *RegexpQuery) Match(r record.FieldAccessible) bool {
	if q.re == nil {
		return false
	}
	return q.re.MatchString(record.AsString(r.Get(q.Field)))
}

// BooleanQuery matches a boolean field stored as an integer 0 or 1.
// The pattern is converted once, at construction.
type BooleanQuery struct {
	FieldQuery
	value int64
}

func (*BooleanQuery) queryNode() {}

// NewBooleanQuery creates a boolean leaf. "yes", "y", "true", "t" and "1"
// (in any case) mean true; anything else means false.
func NewBooleanQuery(field, pattern string, fast bool) (*BooleanQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	var v int64
	if ParseBool(pattern) {
		v = 1
	}
	return &BooleanQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast},
		value:      v,
	}, nil
}

// ParseBool converts a user string to a boolean.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1":
		return true
	default:
		return false
	}
}

// Value returns the canonical integer the pattern was converted to.
func (q *BooleanQuery) Value() int64 {
	return q.value
}

// Clause implements Query.
func (q *BooleanQuery) Clause() (Clause, bool) {
	return q.fast(Clause{
		SQL:    q.Field + " = ?",
		Params: []any{q.value},
	})
}

// Match implements Query.
func (q *BooleanQuery) Match(r record.FieldAccessible) bool {
	n, err := record.AsNumber(r.Get(q.Field))
	if err != nil {
		return false
	}
	return record.Compare(n, record.Int(q.value)) == 0
}

// BytesQuery matches a binary field exactly.
//
// The pattern is held as bytes and bound as a BLOB, so the store never
// compares it as text. In memory only a record.Bytes value can match.
type BytesQuery struct {
	FieldQuery
	raw []byte
}

func (*BytesQuery) queryNode() {}

// NewBytesQuery creates a raw bytes leaf. Bytes leaves are always fast.
func NewBytesQuery(field string, pattern []byte) (*BytesQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	raw := make([]byte, len(pattern))
	copy(raw, pattern)
	return &BytesQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: string(pattern), Fast: true},
		raw:        raw,
	}, nil
}

// Clause implements Query.
func (q *BytesQuery) Clause() (Clause, bool) {
	param := make([]byte, len(q.raw))
	copy(param, q.raw)
	return q.fast(Clause{
		SQL:    q.Field + " = ?",
		Params: []any{param},
	})
}

// Match implements Query.
func (q *BytesQuery) Match(r record.FieldAccessible) bool {
	b, ok := r.Get(q.Field).(record.Bytes)
	return ok && bytes.Equal(b, q.raw)
}
