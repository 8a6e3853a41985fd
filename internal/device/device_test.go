package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "sounds/a.wav"), ExpandPath("~/sounds/a.wav"))
	assert.Equal(t, "/abs/a.wav", ExpandPath("/abs/a.wav"))
	assert.Equal(t, "rel/a.wav", ExpandPath("rel/a.wav"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestResolvePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "sounds/a.wav"), ResolvePath("sounds/a.wav"))
	assert.Equal(t, "/abs/a.wav", ResolvePath("/abs/../abs/./a.wav"))

	// Relative and absolute spellings of one file resolve to the same key.
	assert.Equal(t, ResolvePath(filepath.Join(wd, "x.ogg")), ResolvePath("./x.ogg"))
}
