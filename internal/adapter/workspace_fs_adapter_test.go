package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func TestLocalWorkspaceFSAdapter_FindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "demo", "launch")

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".vscode"), 0o750))
	require.NoError(t, os.MkdirAll(nested, 0o750))

	file := filepath.Join(nested, "demo.launch.py")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o600))

	fs := adapter.NewLocalWorkspaceFSAdapter()

	found, err := fs.FindWorkspaceRoot(m.Path(file))
	require.NoError(t, err)
	assert.Equal(t, m.Path(root), found)

	found, err = fs.FindWorkspaceRoot(m.Path(nested))
	require.NoError(t, err)
	assert.Equal(t, m.Path(root), found)
}

func TestLocalWorkspaceFSAdapter_FindWorkspaceRootMissing(t *testing.T) {
	if _, err := os.Stat(filepath.Join(os.TempDir(), ".vscode")); err == nil {
		t.Skip("temp directory is inside a workspace")
	}

	_, err := adapter.NewLocalWorkspaceFSAdapter().FindWorkspaceRoot(m.Path(t.TempDir()))
	require.Error(t, err)
}

func TestLocalWorkspaceFSAdapter_Files(t *testing.T) {
	dir := t.TempDir()
	fs := adapter.NewLocalWorkspaceFSAdapter()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, fs.MkdirAll(m.Path(nested)))
	assert.False(t, fs.Exists(m.Path(nested)), "directories are not files")

	path := m.Path(filepath.Join(nested, "colcon.env"))
	assert.False(t, fs.Exists(path))

	require.NoError(t, fs.WriteFile(path, []byte("A=1\n"), 0o600))
	assert.True(t, fs.Exists(path))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", string(content))

	rel, err := fs.RelPath(m.Path(dir), path)
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("a", "b", "colcon.env")), rel)
}
