package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/youmind-session/internal"
	"github.com/iksnae/youmind-session/testutil"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantExt string
		wantErr bool
	}{
		{"jsonl format", "jsonl", "jsonl", false},
		{"markdown format", "md", "md", false},
		{"markdown format long", "markdown", "md", false},
		{"yaml format", "yaml", "yaml", false},
		{"yml alias", "yml", "yaml", false},
		{"json format", "json", "json", false},
		{"unsupported format", "xml", "", true},
		{"empty format", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, exporter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, exporter.Extension())
		})
	}
}

func newCatalog(t *testing.T) *internal.Catalog {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	require.NoError(t, internal.MigrateCatalog(db))
	return internal.NewCatalog(db, ":memory:")
}

func TestBuildLibrary(t *testing.T) {
	c := newCatalog(t)

	lib, err := BuildLibrary(c, testExportTime)
	require.NoError(t, err)
	assert.Empty(t, lib.Boards)
	assert.Empty(t, lib.ActiveBoardID)

	first, err := c.AddBoard(internal.BoardInput{URL: "https://youmind.com/boards/one", Name: "One", Topics: []string{"a"}})
	require.NoError(t, err)
	_, err = c.AddBoard(internal.BoardInput{URL: "https://youmind.com/boards/two", Name: "Two", Topics: []string{"b"}})
	require.NoError(t, err)

	lib, err = BuildLibrary(c, testExportTime.In(time.FixedZone("CET", 3600)))
	require.NoError(t, err)
	require.Len(t, lib.Boards, 2)
	assert.Equal(t, first.ID, lib.ActiveBoardID)
	assert.Equal(t, time.UTC, lib.ExportedAt.Location())
}
