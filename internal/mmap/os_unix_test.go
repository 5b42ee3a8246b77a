//go:build unix

package mmap

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMapping_PrivateView(t *testing.T) {
	assert.Equal(t, unix.MAP_PRIVATE, mapFlags)

	path := writeFile(t, []byte("first version"))
	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	// Replacing the file leaves the existing view on the old contents.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("second version"), 0o600))

	assert.Equal(t, "first version", string(m.Bytes()))
}

func TestMapping_AdviseAllPatterns(t *testing.T) {
	m, err := Open(writeFile(t, make([]byte, 3*os.Getpagesize())))
	require.NoError(t, err)
	defer m.Close()

	for _, p := range []AccessPattern{AccessDefault, AccessSequential, AccessRandom, AccessWillNeed, AccessDontNeed} {
		assert.NoError(t, m.Advise(p), "pattern %d", p)
	}
	assert.Len(t, m.Bytes(), 3*os.Getpagesize())
}
