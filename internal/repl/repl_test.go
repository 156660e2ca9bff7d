package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHistoryHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
}

func TestHistorySaveAndLoadRoundTrip(t *testing.T) {
	withTempHistoryHome(t)
	entries := []Entry{
		{Input: "(+ 1 2)", Output: "3"},
		{Input: "(def x 1)", Output: "true"},
	}
	require.NoError(t, SaveHistory(entries))

	loaded, err := LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestLoadHistoryMissingFileReturnsNilNotError(t *testing.T) {
	withTempHistoryHome(t)
	loaded, err := LoadHistory()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadHistoryRejectsCorruptedFile(t *testing.T) {
	withTempHistoryHome(t)
	require.NoError(t, SaveHistory([]Entry{{Input: "x", Output: "y"}}))

	path, err := historyPath()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF // flip a bit in the encoded body
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = LoadHistory()
	assert.ErrorContains(t, err, "integrity check failed")
}

func TestHistoryPathFallsBackToHomeDirWithoutXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := historyPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".slight_history.cbor"), path)
}

func TestScanStateTracksParenDepthAcrossLines(t *testing.T) {
	var s scanState
	assert.True(t, s.atTopLevel())

	s.feed("(def f (x)")
	assert.False(t, s.atTopLevel())

	s.feed("  (+ x 1))")
	assert.True(t, s.atTopLevel())
}

func TestScanStateIgnoresParensInsideStrings(t *testing.T) {
	var s scanState
	s.feed(`(say "(not a paren")`)
	assert.True(t, s.atTopLevel())
}

func TestScanStateIgnoresParensAfterComment(t *testing.T) {
	var s scanState
	s.feed("(+ 1 2) ; (ignored")
	assert.True(t, s.atTopLevel())
}
