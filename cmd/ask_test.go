package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/youmind-session/internal"
)

func TestAskCommand(t *testing.T) {
	t.Run("question required", func(t *testing.T) {
		_, err := runCommand(t, t.TempDir(), "ask")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--question")
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := runCommand(t, t.TempDir(), "ask", "--question", "hi")
		assert.ErrorIs(t, err, internal.ErrNoBoards)
	})

	t.Run("unknown board id", func(t *testing.T) {
		dir := t.TempDir()
		addBoard(t, dir, "Research", "llm")
		_, err := runCommand(t, dir, "ask", "--question", "hi", "--board-id", "ghost")
		assert.ErrorIs(t, err, internal.ErrBoardNotFound)
	})

	t.Run("not authenticated", func(t *testing.T) {
		dir := t.TempDir()
		addBoard(t, dir, "Research", "llm")
		_, err := runCommand(t, dir, "ask", "--question", "hi")
		require.Error(t, err)
		assert.Equal(t, internal.ReasonNotAuthenticated, internal.ReasonOf(err))

		catalog, err := internal.OpenCatalog(internal.NewDataPaths(dir).CatalogDB)
		require.NoError(t, err)
		defer catalog.Close()
		board, err := catalog.GetBoard("research")
		require.NoError(t, err)
		assert.Zero(t, board.UseCount, "failed rounds do not count as use")
	})
}

func TestFailureHint(t *testing.T) {
	reasons := []internal.FailureReason{
		internal.ReasonNotAuthenticated,
		internal.ReasonRedirectedToSignIn,
		internal.ReasonInputNotFound,
		internal.ReasonTimeout,
		internal.ReasonTransportError,
	}
	for _, r := range reasons {
		assert.NotEmpty(t, failureHint(r), string(r))
	}
	assert.Empty(t, failureHint(""))
}
