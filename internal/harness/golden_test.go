package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Regenerate with: go test ./internal/harness -run TestScenarios_Golden -update
func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		s, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRenderTrace(t *testing.T) {
	result := NewResult()
	result.AddCaseTrace(CaseTrace{
		Name:     "one",
		SQL:      "SELECT items.* FROM items WHERE title = ?",
		Params:   []any{"x"},
		Compiled: []int64{1},
		InMemory: []int64{1},
	})

	want := "scenario: s\n" +
		"case: one\n" +
		"  sql: SELECT items.* FROM items WHERE title = ?\n" +
		"  param 0: string x\n" +
		"  post_filter: false\n" +
		"  post_sort: false\n" +
		"  compiled: [1]\n" +
		"  in_memory: [1]\n"
	assert.Equal(t, want, string(RenderTrace("s", result)))
}
