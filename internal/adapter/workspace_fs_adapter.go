package adapter

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// WorkspaceMarker is the directory whose presence marks a workspace folder root.
const WorkspaceMarker = ".vscode"

// WorkspaceFSAdapter abstracts the filesystem operations the domain layer
// needs, so resolver and materializer logic can be tested without a real workspace.
type WorkspaceFSAdapter interface {
	// Exists reports whether a regular file exists at path.
	Exists(path m.Path) bool

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// FindWorkspaceRoot walks up from startPath looking for a directory that
	// contains WorkspaceMarker.
	FindWorkspaceRoot(startPath m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// LocalWorkspaceFSAdapter is the os-backed WorkspaceFSAdapter.
type LocalWorkspaceFSAdapter struct{}

// NewLocalWorkspaceFSAdapter constructs a LocalWorkspaceFSAdapter.
func NewLocalWorkspaceFSAdapter() *LocalWorkspaceFSAdapter {
	return &LocalWorkspaceFSAdapter{}
}

// Exists reports whether a regular file exists at path.
func (a *LocalWorkspaceFSAdapter) Exists(path m.Path) bool {
	return fileExists(string(path))
}

// ReadFile loads file contents from disk.
func (a *LocalWorkspaceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - paths come from the user's own settings
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalWorkspaceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// MkdirAll creates path and its parents.
func (a *LocalWorkspaceFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// FindWorkspaceRoot searches for a .vscode directory walking up the directory tree.
func (a *LocalWorkspaceFSAdapter) FindWorkspaceRoot(startPath m.Path) (m.Path, error) {
	dir := string(startPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, WorkspaceMarker))
		if err == nil && info.IsDir() {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("%s not found in any parent directory of %s", WorkspaceMarker, startPath)
		}

		dir = parent
	}
}

// RelPath returns the relative path from base to target.
func (a *LocalWorkspaceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
