package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/record"
	"github.com/roach88/dbcore/internal/sorting"
	"github.com/roach88/dbcore/internal/store"
	"github.com/roach88/dbcore/internal/testutil"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithSearchIDGenerator(testutil.NewFixedSearchID("search-1"))}, opts...)
	e, err := New(testutil.OpenMusicStore(t), opts...)
	require.NoError(t, err)
	return e
}

func leaf(t *testing.T, e *Engine, kind query.Kind, field, pattern string) query.Query {
	t.Helper()
	q, err := query.New(kind, field, pattern, e.Fast(field))
	require.NoError(t, err)
	return q
}

func TestSearch_ThreeRecordScenario(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Years(t, e.Store(), 1990, 2000, 2010)
	ctx := context.Background()

	numeric := leaf(t, e, query.KindNumeric, "year", "1995..2005")

	// Compiled filter.
	res, err := e.Search(ctx, numeric, nil)
	require.NoError(t, err)
	assert.False(t, res.Statement.PostFilter)
	assert.Equal(t, []int64{ids[1]}, testutil.IDs(res.Records))
	assert.Equal(t, 1, res.Scanned)

	// Same leaf forced through the in-memory post-filter.
	slow, err := query.NewNumericQuery("year", "1995..2005", false)
	require.NoError(t, err)
	res, err = e.Search(ctx, slow, nil)
	require.NoError(t, err)
	assert.True(t, res.Statement.PostFilter)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, []int64{ids[1]}, testutil.IDs(res.Records))
}

func TestSearch_NilQueryReturnsEverything(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Years(t, e.Store(), 1990, 2000)

	res, err := e.Search(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ids, testutil.SortedIDs(res.Records))
	assert.Equal(t, "search-1", res.SearchID)
}

func TestSearch_FlexibleAttributes(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Insert(t, e.Store(),
		testutil.Record(map[string]any{"title": "A", "mood": "calm"}),
		testutil.Record(map[string]any{"title": "B", "mood": "angry"}),
		testutil.Record(map[string]any{"title": "C"}),
	)
	ctx := context.Background()

	q := leaf(t, e, query.KindMatch, "mood", "calm")
	res, err := e.Search(ctx, q, nil)
	require.NoError(t, err)
	assert.True(t, res.Statement.PostFilter, "attributes are filtered in memory")
	assert.Equal(t, []int64{ids[0]}, testutil.IDs(res.Records))

	s, err := sorting.Parse([]string{"mood:desc"}, e.Store().Schema())
	require.NoError(t, err)
	res, err = e.Search(ctx, nil, s)
	require.NoError(t, err)
	assert.False(t, res.Statement.PostSort, "attribute sorts compile to a join")
	assert.Equal(t, []int64{ids[0], ids[1], ids[2]}, testutil.IDs(res.Records))
}

func TestSearch_IDFilterWithFlexSort(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Insert(t, e.Store(),
		testutil.Record(map[string]any{"title": "A", "mood": "calm"}),
		testutil.Record(map[string]any{"title": "B", "mood": "calm"}),
		testutil.Record(map[string]any{"title": "C", "mood": "angry"}),
		testutil.Record(map[string]any{"title": "D", "mood": "calm"}),
	)

	q := leaf(t, e, query.KindNumeric, "id", fmt.Sprintf("%d..", ids[1]))
	s, err := sorting.Parse([]string{"mood", "id:desc"}, e.Store().Schema())
	require.NoError(t, err)

	res, err := e.Search(context.Background(), q, s)
	require.NoError(t, err)
	assert.False(t, res.Statement.Slow())
	assert.Equal(t, []int64{ids[2], ids[3], ids[1]}, testutil.IDs(res.Records))
}

func TestSearch_ColumnsNamedLikeAttributeTable(t *testing.T) {
	st := testutil.OpenStore(t, store.Schema{
		Table:          "items",
		AttributeTable: "item_attributes",
		Columns: []store.Column{
			{Name: "key", Type: "TEXT"},
			{Name: "value", Type: "INTEGER"},
			{Name: "entity_id", Type: "INTEGER"},
		},
	})
	e, err := New(st, WithSearchIDGenerator(testutil.NewFixedSearchID("search-1")))
	require.NoError(t, err)
	ids := testutil.Insert(t, st,
		testutil.Record(map[string]any{"key": "C", "value": 1, "mood": "b"}),
		testutil.Record(map[string]any{"key": "C", "value": 2, "mood": "a"}),
		testutil.Record(map[string]any{"key": "D", "value": 3, "mood": "c"}),
	)

	and, err := query.NewAndQuery(
		leaf(t, e, query.KindMatch, "key", "C"),
		leaf(t, e, query.KindNumeric, "value", "1..2"),
	)
	require.NoError(t, err)
	s, err := sorting.Parse([]string{"mood", "value"}, st.Schema())
	require.NoError(t, err)

	res, err := e.Search(context.Background(), and, s)
	require.NoError(t, err)
	assert.False(t, res.Statement.Slow())
	assert.Equal(t, []int64{ids[1], ids[0]}, testutil.IDs(res.Records))

	var matched []int64
	all, err := e.Search(context.Background(), nil, nil)
	require.NoError(t, err)
	for _, r := range all.Records {
		if and.Match(r) {
			matched = append(matched, r.ID)
		}
	}
	assert.ElementsMatch(t, matched, testutil.IDs(res.Records))
}

func TestSearch_MixedTreeFallsBackAsAWhole(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Insert(t, e.Store(),
		testutil.Record(map[string]any{"artist": "Beck", "title": "Loser"}),
		testutil.Record(map[string]any{"artist": "Beck", "title": "Devils Haircut"}),
		testutil.Record(map[string]any{"artist": "Björk", "title": "Hyperballad"}),
	)

	and, err := query.NewAndQuery(
		leaf(t, e, query.KindMatch, "artist", "Beck"),
		leaf(t, e, query.KindRegexp, "title", "^L"),
	)
	require.NoError(t, err)

	res, err := e.Search(context.Background(), and, nil)
	require.NoError(t, err)
	assert.True(t, res.Statement.PostFilter)
	assert.Equal(t, "SELECT items.* FROM items WHERE 1", res.Statement.SQL)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, []int64{ids[0]}, testutil.IDs(res.Records))
}

func TestSearch_PostSortAppliesEveryKey(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Insert(t, e.Store(),
		testutil.Record(map[string]any{"artist": "B", "title": "x", "year": 2000}),
		testutil.Record(map[string]any{"artist": "A", "title": "y", "year": 1990}),
		testutil.Record(map[string]any{"artist": "A", "title": "z", "year": 1990}),
		testutil.Record(map[string]any{"artist": "A", "title": "w", "year": 2010}),
	)

	artist, err := sorting.NewFixedFieldSort("artist", true, true)
	require.NoError(t, err)
	computed, err := sorting.NewFixedFieldSort("year", false, false)
	require.NoError(t, err)
	title, err := sorting.NewFixedFieldSort("title", false, true)
	require.NoError(t, err)

	res, err := e.Search(context.Background(), nil, sorting.NewMultipleSort(artist, computed, title))
	require.NoError(t, err)
	assert.True(t, res.Statement.PostSort)
	assert.Equal(t, "SELECT items.* FROM items WHERE 1 ORDER BY artist ASC", res.Statement.SQL)
	assert.Equal(t, []int64{ids[3], ids[2], ids[1], ids[0]}, testutil.IDs(res.Records))
}

func TestSearch_SmartArtist(t *testing.T) {
	e := newTestEngine(t)
	ids := testutil.Insert(t, e.Store(),
		testutil.Record(map[string]any{"albumartist": "The Beatles", "albumartist_sort": "Beatles, The"}),
		testutil.Record(map[string]any{"albumartist": "Abba", "albumartist_sort": ""}),
		testutil.Record(map[string]any{"albumartist": "Can"}),
	)

	s, ok := sorting.Special("smartartist", e.Store().Schema(), true)
	require.True(t, ok)

	res, err := e.Search(context.Background(), nil, s)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[0], ids[2]}, testutil.IDs(res.Records))

	// The in-memory order agrees with the store's.
	records := append([]record.Record(nil), res.Records...)
	s.Sort(records)
	assert.Equal(t, testutil.IDs(res.Records), testutil.IDs(records))
}

func TestSearch_ScanLimit(t *testing.T) {
	e := newTestEngine(t, WithMaxScan(2))
	testutil.Years(t, e.Store(), 1990, 2000, 2010)
	ctx := context.Background()

	// Compiled searches are not limited.
	_, err := e.Search(ctx, leaf(t, e, query.KindNumeric, "year", "1990.."), nil)
	require.NoError(t, err)

	slow, err := query.NewNumericQuery("year", "1990..", false)
	require.NoError(t, err)
	_, err = e.Search(ctx, slow, nil)
	require.Error(t, err)
	assert.True(t, IsScanLimitError(err))

	var se *SearchError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCodeScanLimit, se.Code)
	assert.Equal(t, "search-1", se.SearchID)
}

func TestSearch_ExecuteError(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, nil, nil)
	var se *SearchError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCodeExecute, se.Code)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFast(t *testing.T) {
	e := newTestEngine(t)

	assert.True(t, e.Fast("title"))
	assert.True(t, e.Fast("id"))
	assert.False(t, e.Fast("mood"))
}

func TestPlan(t *testing.T) {
	e := newTestEngine(t)

	stmt := e.Plan(leaf(t, e, query.KindMatch, "title", "x"), sorting.Raw("year"))
	assert.Equal(t, "SELECT items.* FROM items WHERE title = ? ORDER BY year", stmt.SQL)
	assert.Equal(t, []any{"x"}, stmt.Params)
}

func TestImport(t *testing.T) {
	e := newTestEngine(t)

	ids, err := e.Import(context.Background(), []record.Record{
		testutil.Record(map[string]any{"title": "one"}),
		testutil.Record(map[string]any{"title": "two"}),
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	dup := testutil.Record(map[string]any{"title": "dup"})
	dup.ID = ids[0]
	ids, err = e.Import(context.Background(), []record.Record{
		testutil.Record(map[string]any{"title": "three"}),
		dup,
	})
	assert.Error(t, err)
	assert.Len(t, ids, 1, "records before the failure stay stored")
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}
