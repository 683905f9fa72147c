package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/youmind-session/internal"
)

func TestAuthStatusAndClear(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not authenticated")

	store := internal.NewAuthStore(internal.NewDataPaths(dir))
	require.NoError(t, store.SaveState(&internal.BrowserState{
		Cookies: []internal.StoredCookie{{Name: "sid", Value: "x", Domain: ".youmind.com", Path: "/"}},
	}, "https://youmind.com/sign-in"))

	out, err = runCommand(t, dir, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated")
	assert.Contains(t, out, "Cookies: 1")

	_, err = runCommand(t, dir, "auth", "clear")
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())
}
