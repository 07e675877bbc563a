package domain

import (
	"path/filepath"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// Workspace is the host's view of the open folders and the active document.
type Workspace struct {
	Folders []m.Folder
	// ActiveFile is the document being edited, empty when there is none.
	ActiveFile string
}

// NewFolder builds a folder named after its directory.
func NewFolder(path string) m.Folder {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	return m.Folder{Name: filepath.Base(abs), Path: m.Path(abs)}
}

// Owner returns the folder containing file. With nested folders the deepest one wins.
func (w Workspace) Owner(file string) (m.Folder, bool) {
	if file == "" {
		return m.Folder{}, false
	}

	var (
		owner m.Folder
		found bool
	)

	for _, folder := range w.Folders {
		if !containsPath(string(folder.Path), file) {
			continue
		}

		if !found || len(folder.Path) > len(owner.Path) {
			owner = folder
			found = true
		}
	}

	return owner, found
}

// Lookup returns the folder whose path or name equals target.
func (w Workspace) Lookup(target string) (m.Folder, bool) {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}

	for _, folder := range w.Folders {
		if string(folder.Path) == abs || folder.Name == target {
			return folder, true
		}
	}

	return m.Folder{}, false
}

// DefaultFolder is the owner of the active document, else the first folder.
func (w Workspace) DefaultFolder() (m.Folder, bool) {
	if owner, ok := w.Owner(w.ActiveFile); ok {
		return owner, true
	}

	if len(w.Folders) == 0 {
		return m.Folder{}, false
	}

	return w.Folders[0], true
}

// ActiveFolder returns the owner of the active document only.
func (w Workspace) ActiveFolder() (m.Folder, bool) {
	return w.Owner(w.ActiveFile)
}
