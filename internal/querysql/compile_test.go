package querysql

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/sorting"
)

type testSchema map[string]bool

func (testSchema) TableName() string            { return "items" }
func (testSchema) AttributeTableName() string   { return "item_attributes" }
func (s testSchema) HasColumn(name string) bool { return s[name] }

var musicSchema = testSchema{
	"title": true, "artist": true, "albumartist": true, "albumartist_sort": true,
	"year": true, "added": true,
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("items")
	require.NoError(t, err)
	return b
}

func leaf(t *testing.T, kind query.Kind, field, pattern string, fast bool) query.Query {
	t.Helper()
	q, err := query.New(kind, field, pattern, fast)
	require.NoError(t, err)
	return q
}

func render(s Statement) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "sql: %s\n", s.SQL)
	for i, p := range s.Params {
		fmt.Fprintf(&b, "param %d: %T %v\n", i+1, p, p)
	}
	fmt.Fprintf(&b, "post_filter: %t\n", s.PostFilter)
	fmt.Fprintf(&b, "post_sort: %t\n", s.PostSort)
	return []byte(b.String())
}

func TestBuild_NilQueryAndSort(t *testing.T) {
	stmt := newBuilder(t).Build(nil, nil)

	assert.Equal(t, "SELECT items.* FROM items WHERE 1", stmt.SQL)
	assert.Empty(t, stmt.Params)
	assert.False(t, stmt.Slow())
}

func TestBuild_RefusedFilterSelectsEverything(t *testing.T) {
	q := leaf(t, query.KindRegexp, "title", "^Love", true)

	stmt := newBuilder(t).Build(q, nil)

	assert.Equal(t, "SELECT items.* FROM items WHERE 1", stmt.SQL)
	assert.True(t, stmt.PostFilter)
	assert.False(t, stmt.PostSort)
	assert.True(t, stmt.Slow())
}

func TestBuild_NoInterpolation(t *testing.T) {
	q := leaf(t, query.KindMatch, "title", "Robert'); DROP TABLE items;--", true)

	stmt := newBuilder(t).Build(q, nil)

	assert.Equal(t, "SELECT items.* FROM items WHERE title = ?", stmt.SQL)
	assert.NotContains(t, stmt.SQL, "DROP")
	assert.Equal(t, []any{"Robert'); DROP TABLE items;--"}, stmt.Params)
}

func TestBuild_JoinParamsComeFirst(t *testing.T) {
	q := leaf(t, query.KindMatch, "artist", "Beck", true)
	s, err := sorting.NewFlexFieldSort(musicSchema, "mood", true)
	require.NoError(t, err)

	stmt := newBuilder(t).Build(q, s)

	join := strings.Index(stmt.SQL, "WHERE key = ?")
	where := strings.Index(stmt.SQL, "artist = ?")
	require.True(t, join >= 0 && where >= 0)
	assert.Less(t, join, where)
	assert.Equal(t, []any{"mood", "Beck"}, stmt.Params)
}

func TestBuild_EmptySortFragment(t *testing.T) {
	s := sorting.NewSmartArtistSort(testSchema{"title": true}, true)

	stmt := newBuilder(t).Build(query.TrueQuery{}, s)

	assert.Equal(t, "SELECT items.* FROM items WHERE 1", stmt.SQL)
	assert.False(t, stmt.PostSort)
}

func TestNewBuilder_RejectsBadTable(t *testing.T) {
	_, err := NewBuilder("items; DROP TABLE items")
	assert.True(t, errors.Is(err, query.ErrInvalidField))

	b, err := NewBuilder("albums")
	require.NoError(t, err)
	assert.Equal(t, "albums", b.Table())
}

func TestBuild_Golden(t *testing.T) {
	testCases := []struct {
		name  string
		query func(t *testing.T) query.Query
		sort  func(t *testing.T) sorting.Sort
	}{
		{
			name: "fast_filter_no_sort",
			query: func(t *testing.T) query.Query {
				and, err := query.NewAndQuery(
					leaf(t, query.KindMatch, "artist", "Beck", true),
					leaf(t, query.KindNumeric, "year", "1990..2000", true),
				)
				require.NoError(t, err)
				return and
			},
		},
		{
			name: "slow_filter_flex_sort",
			query: func(t *testing.T) query.Query {
				or, err := query.NewOrQuery(
					leaf(t, query.KindSubstring, "title", "love", true),
					leaf(t, query.KindRegexp, "title", "^L", true),
				)
				require.NoError(t, err)
				return or
			},
			sort: func(t *testing.T) sorting.Sort {
				s, err := sorting.Parse([]string{"mood:desc", "year"}, musicSchema)
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "smartartist_then_slow_sort",
			query: func(t *testing.T) query.Query {
				return leaf(t, query.KindSubstring, "title", "50%", true)
			},
			sort: func(t *testing.T) sorting.Sort {
				computed, err := sorting.NewFixedFieldSort("rating", false, false)
				require.NoError(t, err)
				title, err := sorting.NewFixedFieldSort("title", true, true)
				require.NoError(t, err)
				return sorting.NewMultipleSort(
					sorting.NewSmartArtistSort(musicSchema, true),
					computed,
					title,
				)
			},
		},
		{
			name: "id_filter_flex_then_id_sort",
			query: func(t *testing.T) query.Query {
				return leaf(t, query.KindNumeric, "id", "1..", true)
			},
			sort: func(t *testing.T) sorting.Sort {
				mood, err := sorting.NewFlexFieldSort(musicSchema, "mood", true)
				require.NoError(t, err)
				id, err := sorting.NewFixedFieldSort("id", true, true)
				require.NoError(t, err)
				return sorting.NewMultipleSort(mood, id)
			},
		},
		{
			name: "raw_order_date",
			query: func(t *testing.T) query.Query {
				return leaf(t, query.KindDate, "added", "2014", true)
			},
			sort: func(t *testing.T) sorting.Sort {
				return sorting.Raw("added DESC, id")
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s sorting.Sort
			if tc.sort != nil {
				s = tc.sort(t)
			}
			stmt := newBuilder(t).Build(tc.query(t), s)
			g.Assert(t, tc.name, render(stmt))
		})
	}
}
