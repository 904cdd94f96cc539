package qup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClearMissingDirIsNoop(t *testing.T) {
	c := &RepositoryCache{Dir: filepath.Join(t.TempDir(), "never-created")}
	require.NoError(t, c.Clear())
}

func TestClearRemovesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qtile-git")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PKGBUILD"), []byte("x"), 0o644))

	c := &RepositoryCache{Dir: dir}
	require.NoError(t, c.Clear())
	require.NoDirExists(t, dir)
}

func TestFetchUnreachable(t *testing.T) {
	url := filepath.Join(t.TempDir(), "no-such-repo")
	c := &RepositoryCache{Dir: filepath.Join(t.TempDir(), "dest")}

	err := c.Fetch(url)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unreachable")
	require.Contains(t, err.Error(), url)
}
