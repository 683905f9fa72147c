package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(testLibrary(), &buf))

	out := buf.String()
	assert.Contains(t, out, "boards:")
	assert.Contains(t, out, "id: ai-papers")
	assert.Contains(t, out, "active_board_id: recipes")

	lib, err := ParseLibrary(buf.Bytes(), "yaml")
	require.NoError(t, err)
	require.Len(t, lib.Boards, 2)
	assert.Equal(t, "recipes", lib.ActiveBoardID)
	assert.Equal(t, []string{"llm", "agents"}, lib.Boards[0].Topics)
	assert.True(t, testLibrary().Boards[0].CreatedAt.Equal(lib.Boards[0].CreatedAt))
}

func TestYAMLExporter_Extension(t *testing.T) {
	assert.Equal(t, "yaml", (&YAMLExporter{}).Extension())
}
