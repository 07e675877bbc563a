package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// currentWorkspace builds the folder list and the active document from flags
// and settings.
func currentWorkspace() domain.Workspace {
	ws := domain.Workspace{ActiveFile: activeFileFlag}

	if ws.ActiveFile != "" {
		if abs, err := filepath.Abs(ws.ActiveFile); err == nil {
			ws.ActiveFile = abs
		}
	}

	paths := folderFlags
	if len(paths) == 0 {
		paths = viper.GetStringSlice(foldersConfigKey)
	}

	for _, path := range paths {
		ws.Folders = append(ws.Folders, domain.NewFolder(path))
	}

	if len(ws.Folders) > 0 {
		return ws
	}

	if ws.ActiveFile != "" {
		if root, err := workspaceFS.FindWorkspaceRoot(m.Path(ws.ActiveFile)); err == nil {
			ws.Folders = append(ws.Folders, domain.NewFolder(string(root)))
			return ws
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root, err := workspaceFS.FindWorkspaceRoot(m.Path(cwd)); err == nil {
			ws.Folders = append(ws.Folders, domain.NewFolder(string(root)))
		}
	}

	return ws
}

// targetConfig resolves the snapshot of the folder an operation acts on: the
// --target folder, the owner of the active document, or a folder picked by
// the user when several are open.
func targetConfig(ctx context.Context, ws domain.Workspace) (m.Config, error) {
	target := m.Path(targetFlag)

	if target == "" && len(ws.Folders) > 1 {
		if _, ok := ws.ActiveFolder(); !ok {
			folder, err := pickFolder(ctx, ws.Folders)
			if err != nil {
				return m.Config{}, err
			}

			target = folder.Path
		}
	}

	return resolver.Resolve(ws, target)
}

func pickFolder(ctx context.Context, folders []m.Folder) (m.Folder, error) {
	items := make([]controller.PickItem, 0, len(folders))
	for _, folder := range folders {
		items = append(items, controller.PickItem{Label: folder.Name, Detail: string(folder.Path)})
	}

	index, err := picker.PickOne(ctx, "Select workspace folder", items)
	if errors.Is(err, controller.ErrNotInteractive) {
		return folders[0], nil
	}

	if err != nil {
		return m.Folder{}, err
	}

	return folders[index], nil
}

// folderConfigs resolves the snapshot of every folder, or of the target folder
// only unless all is set.
func folderConfigs(ctx context.Context, ws domain.Workspace, all bool) ([]m.Config, error) {
	if !all {
		cfg, err := targetConfig(ctx, ws)
		if err != nil {
			return nil, err
		}

		return []m.Config{cfg}, nil
	}

	if len(ws.Folders) == 0 {
		return nil, &m.ConfigurationError{Reason: "can't find workspace"}
	}

	cfgs := make([]m.Config, 0, len(ws.Folders))

	for _, folder := range ws.Folders {
		cfg, err := resolver.Resolve(ws, folder.Path)
		if err != nil {
			return nil, err
		}

		cfgs = append(cfgs, cfg)
	}

	return cfgs, nil
}
