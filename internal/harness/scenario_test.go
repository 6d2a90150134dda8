package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "Minimal scenario"
records:
  - { title: A }
cases:
  - name: all
    expect_ids: [1]
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Records, 1)
	assert.Equal(t, "A", s.Records[0]["title"])
	require.Len(t, s.Cases, 1)
	assert.Equal(t, []int64{1}, s.Cases[0].ExpectIDs)
	assert.Nil(t, s.Cases[0].ExpectPostFilter)
}

func TestParseScenario_QueryTree(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: tree
description: "tree"
cases:
  - name: nested
    query:
      and:
        - term: "title=A"
        - or:
            - term: "numeric:year=1990.."
            - term: "mood=calm"
    expect_ids: []
`))
	require.NoError(t, err)

	q := s.Cases[0].Query
	require.NotNil(t, q)
	require.Len(t, q.And, 2)
	assert.Equal(t, "title=A", q.And[0].Term)
	assert.Len(t, q.And[1].Or, 2)
	assert.NotNil(t, s.Cases[0].ExpectIDs)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  minimalScenario + "    expect_id: [1]\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			doc:  "description: d\ncases: [{name: a, expect_ids: []}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			doc:  "name: n\ncases: [{name: a, expect_ids: []}]\n",
			want: "description is required",
		},
		{
			name: "no cases",
			doc:  "name: n\ndescription: d\n",
			want: "cases list is required",
		},
		{
			name: "missing expect_ids",
			doc:  "name: n\ndescription: d\ncases: [{name: a}]\n",
			want: "expect_ids is required",
		},
		{
			name: "duplicate case",
			doc:  "name: n\ndescription: d\ncases: [{name: a, expect_ids: []}, {name: a, expect_ids: []}]\n",
			want: "duplicate name",
		},
		{
			name: "node with two kinds",
			doc:  "name: n\ndescription: d\ncases: [{name: a, expect_ids: [], query: {term: \"x=1\", and: []}}]\n",
			want: "exactly one of",
		},
		{
			name: "empty node",
			doc:  "name: n\ndescription: d\ncases: [{name: a, expect_ids: [], query: {or: [{}]}}]\n",
			want: "exactly one of",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
