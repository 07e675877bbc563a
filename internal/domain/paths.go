// Package domain implements configuration resolution, package discovery,
// environment materialization and task synthesis for colcon workspaces.
package domain

import (
	"path/filepath"
	"strings"
)

// WorkspaceFolderPlaceholder is substituted with the folder path in configured paths.
const WorkspaceFolderPlaceholder = "${workspaceFolder}"

// ResolvePath substitutes the workspace-folder placeholder with base and makes
// the result absolute by joining it under base. Resolving an absolute path
// without a placeholder returns it unchanged (cleaned).
func ResolvePath(path, base string) string {
	result := path

	if base != "" {
		result = strings.ReplaceAll(result, WorkspaceFolderPlaceholder, base)
	}

	if filepath.IsAbs(result) {
		return filepath.Clean(result)
	}

	return filepath.Join(base, result)
}

// containsPath reports whether target lies at or below dir.
func containsPath(dir, target string) bool {
	dir = filepath.Clean(dir)
	target = filepath.Clean(target)

	if dir == target {
		return true
	}

	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}

	return strings.HasPrefix(target, dir)
}
