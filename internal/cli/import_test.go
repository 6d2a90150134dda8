package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecords(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

func TestImport_JSON(t *testing.T) {
	dir, records := writeRecords(t, libraryRecords)

	out, _, err := execute(t, "import", "--db", filepath.Join(dir, "library.db"), "--format", "json", records)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Imported)
	assert.Equal(t, []int64{1, 2, 3}, resp.Data.IDs)
}

func TestImport_StopsAtDuplicateID(t *testing.T) {
	dir, records := writeRecords(t, `
- { id: 7, title: first }
- { id: 7, title: second }
`)

	_, _, err := execute(t, "import", "--db", filepath.Join(dir, "library.db"), records)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "import stopped after 1 record(s)")
}

func TestImport_BadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a list", "title: lonely\n"},
		{"non-integer id", "- { id: seven, title: x }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, records := writeRecords(t, tt.content)
			_, _, err := execute(t, "import", "--db", filepath.Join(dir, "library.db"), records)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "import", "--db", filepath.Join(t.TempDir(), "library.db"), "nope.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}
