package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o700))

	fpath := filepath.Join(dir, "42")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	require.NoError(t, f.Close())

	info2, err := lfs.Stat(fpath)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("faulty*", Fault{FailOnWrite: true, FailAfterBytes: 5})

	fpath := filepath.Join(t.TempDir(), "faulty.bin")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0o600)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello world"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 5, n)
	require.NoError(t, f.Close())

	// The prefix made it to disk.
	data, err := os.ReadFile(fpath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, 1, ffs.Opens(fpath))
}

func TestFaultyFS_OpenCloseRemove(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	custom := io.ErrShortWrite

	ffs.AddRule("noopen", Fault{FailOnOpen: true})
	_, err := ffs.OpenFile(filepath.Join(tmp, "noopen"), os.O_CREATE|os.O_WRONLY, 0o600)
	assert.ErrorIs(t, err, ErrInjected)

	ffs.AddRule("noclose", Fault{FailOnClose: true, Err: custom})
	f, err := ffs.OpenFile(filepath.Join(tmp, "noclose"), os.O_CREATE|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.Write([]byte("data"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), custom)

	ffs.AddRule("noclose", Fault{FailOnRemove: true})
	assert.ErrorIs(t, ffs.Remove(filepath.Join(tmp, "noclose")), ErrInjected)

	ffs.ClearRules()
	require.NoError(t, ffs.Remove(filepath.Join(tmp, "noclose")))
}

func TestAccessTime(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "1")
	require.NoError(t, os.WriteFile(fpath, []byte("x"), 0o600))

	fi, err := os.Stat(fpath)
	require.NoError(t, err)

	at := AccessTime(fpath, fi)
	assert.True(t, at.After(time.Unix(0, 0)))

	// A vanished file falls back to the FileInfo.
	require.NoError(t, os.Remove(fpath))
	assert.Equal(t, fi.ModTime(), AccessTime(fpath, fi))
}
