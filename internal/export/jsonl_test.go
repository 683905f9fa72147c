package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLExporter_Export(t *testing.T) {
	t.Run("empty library", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&JSONLExporter{}).Export(&Library{}, &buf))
		assert.Empty(t, buf.String())
	})

	t.Run("one line per board", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&JSONLExporter{}).Export(testLibrary(), &buf))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var first, second map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

		assert.Equal(t, "ai-papers", first["id"])
		assert.Equal(t, float64(3), first["use_count"])
		assert.Contains(t, first, "last_used")
		assert.Contains(t, first, "tags")
		assert.NotContains(t, first, "active")

		assert.Equal(t, true, second["active"])
		assert.NotContains(t, second, "last_used")
		assert.NotContains(t, second, "tags")
	})
}

func TestJSONLExporter_Extension(t *testing.T) {
	assert.Equal(t, "jsonl", (&JSONLExporter{}).Extension())
}
