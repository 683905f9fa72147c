package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/youmind-session/internal"
)

func addBoard(t *testing.T, dir, name, topics string) {
	t.Helper()
	_, err := runCommand(t, dir, "board", "add",
		"--url", "https://youmind.com/boards/"+strings.ToLower(name),
		"--name", name,
		"--description", name+" board",
		"--topics", topics)
	require.NoError(t, err)
}

func TestBoardCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No boards yet")

	addBoard(t, dir, "Research", "llm,agents")
	addBoard(t, dir, "Cooking", "recipes")

	out, err = runCommand(t, dir, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 board(s)")
	assert.Contains(t, out, "* research", "first board is active")
	assert.Contains(t, out, "cooking")

	out, err = runCommand(t, dir, "board", "search", "--query", "RECIPES")
	require.NoError(t, err)
	assert.Contains(t, out, "1 board(s)")
	assert.Contains(t, out, "cooking")

	_, err = runCommand(t, dir, "board", "activate", "--id", "cooking")
	require.NoError(t, err)

	_, err = runCommand(t, dir, "board", "update", "--id", "cooking", "--tags", "food,home", "--name", "Home Cooking")
	require.NoError(t, err)

	out, err = runCommand(t, dir, "board", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Home Cooking (active)")
	assert.Contains(t, out, "food, home")
	assert.Contains(t, out, "Cooking board", "description is unchanged by update")

	out, err = runCommand(t, dir, "board", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Boards:")
	assert.Contains(t, out, "Home Cooking")

	_, err = runCommand(t, dir, "board", "remove", "--id", "cooking")
	require.NoError(t, err)
	out, err = runCommand(t, dir, "board", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Research (active)", "active moves to the remaining board")
}

func TestBoardCommandErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add missing fields", []string{"board", "add", "--url", "https://youmind.com/boards/x"}, "--name, --description, --topics"},
		{"activate without id", []string{"board", "activate"}, "--id is required"},
		{"search without query", []string{"board", "search"}, "--query is required"},
		{"update without fields", []string{"board", "update", "--id", "x"}, "nothing to update"},
		{"smart-add without url", []string{"board", "smart-add"}, "--url is required"},
		{"show on empty catalog", []string{"board", "show"}, "no active board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := runCommand(t, dir, "board", "remove", "--id", "ghost")
	assert.True(t, errors.Is(err, internal.ErrBoardNotFound))
}

func TestFormatWhen(t *testing.T) {
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"today", now.Add(-2 * time.Hour), "Today 13:00"},
		{"this week", now.Add(-48 * time.Hour), "Mon 15:00"},
		{"this year", time.Date(2026, 1, 3, 9, 5, 0, 0, time.Local), "Jan 03 09:05"},
		{"older", time.Date(2024, 12, 31, 9, 0, 0, 0, time.Local), "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatWhen(tt.t, now))
		})
	}
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short", wrapText("short", 10))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "长长长 长长\n长", wrapText("长长长 长长 长", 6))
}
