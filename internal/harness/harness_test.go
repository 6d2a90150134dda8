package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ThreeRecordScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "three_years.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 3)

	compiled := result.Trace[0]
	assert.False(t, compiled.PostFilter)
	assert.Equal(t, []int64{2}, compiled.Compiled)
	assert.Equal(t, []int64{2}, compiled.InMemory)

	fallback := result.Trace[1]
	assert.True(t, fallback.PostFilter)
	assert.Equal(t, []int64{2}, fallback.Compiled)
}

func TestRun_ReportsMismatches(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: wrong
description: "expectations that do not hold"
records:
  - { title: A, year: 1990 }
  - { title: B, year: 2000 }
cases:
  - name: wrong_ids
    where: ["numeric:year=2000"]
    expect_ids: [1]
  - name: wrong_path
    where: ["numeric:year=2000"]
    expect_ids: [2]
    expect_post_filter: true
  - name: wrong_order
    sort: ["year:desc"]
    expect_ids: [1, 2]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "wrong_ids (compiled)")
	assert.Contains(t, result.Errors[1], "wrong_ids (in_memory)")
	assert.Contains(t, result.Errors[2], "wrong_path (post_filter)")
	assert.Contains(t, result.Errors[3], "wrong_order (compiled)")
	assert.Contains(t, result.Errors[4], "wrong_order (in_memory)")
}

func TestRun_CustomColumns(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: custom
description: "custom columns and search fields"
columns:
  - { name: name, type: TEXT }
  - { name: size, type: INTEGER }
search_fields: [name]
records:
  - { name: alpha, size: 3, owner: root }
  - { name: beta, size: 10 }
cases:
  - name: any
    any: ph
    expect_ids: [1]
    expect_post_filter: false
  - name: flexible
    where: ["owner=root"]
    expect_ids: [1]
    expect_post_filter: true
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExplicitIDs(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: ids
description: "records with explicit ids"
records:
  - { id: 10, title: A }
  - { id: 20, title: B }
cases:
  - name: b
    where: ["title=B"]
    expect_ids: [20]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad term",
			doc:  "name: n\ndescription: d\ncases: [{name: a, where: [\"fuzzy:title=x\"], expect_ids: []}]\n",
			want: "unknown query kind",
		},
		{
			name: "bad sort",
			doc:  "name: n\ndescription: d\ncases: [{name: a, sort: [\"title:up\"], expect_ids: []}]\n",
			want: "bad sort term",
		},
		{
			name: "bad column type",
			doc:  "name: n\ndescription: d\ncolumns: [{name: x, type: JSON}]\ncases: [{name: a, expect_ids: []}]\n",
			want: "invalid columns",
		},
		{
			name: "bad record id",
			doc:  "name: n\ndescription: d\nrecords: [{id: abc}]\ncases: [{name: a, expect_ids: []}]\n",
			want: "failed to load records",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScenario(strings.NewReader(tt.doc))
			require.NoError(t, err)

			_, err = Run(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
