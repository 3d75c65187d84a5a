package vcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVCS(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", DetectVCS(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	assert.Equal(t, "git", DetectVCS(dir))
}

func TestDetectVCSOtherMarkers(t *testing.T) {
	tests := []struct {
		marker string
		name   string
	}{
		{".hg", "hg"},
		{".jj", "jj"},
		{".pijul", "pijul"},
		{"_FOSSIL_", "fossil"},
		{".svn", "svn"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, tt.marker), 0o755))
		assert.Equal(t, tt.name, DetectVCS(dir), "marker %s", tt.marker)
	}
}

func TestFindProjectRootByVCSMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	sub := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root := FindProjectRoot(sub)
	assert.Equal(t, resolved(t, dir), resolved(t, root))
}

func TestFindProjectRootPrefersGraphFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	// A nested graph file marks a nested qualifier root inside the repo.
	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "qualifier.graph.jsonl"), nil, 0o644))

	root := FindProjectRoot(nested)
	assert.Equal(t, resolved(t, nested), resolved(t, root))
}

func TestFindProjectRootFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	root := FindProjectRoot(file)
	assert.Equal(t, resolved(t, dir), resolved(t, root))
}

func TestDetectAuthorFallsBackToUser(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // hide any real global git config
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("USER", "casey")

	author := DetectAuthor(dir)
	assert.NotEmpty(t, author)
}

func TestRefPinOutsideGit(t *testing.T) {
	assert.Equal(t, "", RefPin(t.TempDir()))
}

// resolved normalizes symlinked temp dirs (macOS /var vs /private/var).
func resolved(t *testing.T, path string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return r
}
