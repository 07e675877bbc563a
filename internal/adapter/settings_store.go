// Package adapter contains infrastructure adapters for the colcon helper CLI.
package adapter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// FolderSettingsFile is the folder-scoped settings file, relative to the folder root.
const FolderSettingsFile = ".vscode/colcon.yaml"

// Settings is the read side of one settings scope. *viper.Viper satisfies it.
type Settings interface {
	IsSet(key string) bool
	Get(key string) any
	GetString(key string) string
	GetBool(key string) bool
	GetStringMapString(key string) map[string]string
}

// Inspection reports where a key is defined.
type Inspection struct {
	WorkspaceValue any
	FolderValue    any
}

// Defined reports whether any scope sets the key.
func (i Inspection) Defined() bool {
	return i.WorkspaceValue != nil || i.FolderValue != nil
}

// SettingsStore gives access to the workspace-wide store and to per-folder
// stores layered on top of it.
type SettingsStore interface {
	// Workspace returns the workspace-wide store. Process-wide keys are read here.
	Workspace() Settings

	// Folder returns the folder store layered over the workspace store,
	// environment overrides of the workspace store included.
	Folder(folder m.Path) (Settings, error)

	// Inspect returns the raw values of key in each scope.
	Inspect(folder m.Path, key string) (Inspection, error)

	// Update writes key to the folder-scoped settings file.
	Update(folder m.Path, key string, value any) error

	// FolderConfigPath returns the folder-scoped settings file of folder.
	FolderConfigPath(folder m.Path) string

	// Watch calls onChange whenever the workspace file or one of the folder
	// files changes, until ctx is done. Nothing is re-read on the watcher
	// goroutine.
	Watch(ctx context.Context, folders []m.Path, onChange func(event fsnotify.Event)) error
}

// ViperSettingsStore implements SettingsStore with one viper instance per scope.
type ViperSettingsStore struct {
	workspace *viper.Viper
}

// NewViperSettingsStore wraps an already configured workspace viper instance.
func NewViperSettingsStore(workspace *viper.Viper) *ViperSettingsStore {
	return &ViperSettingsStore{workspace: workspace}
}

// Workspace returns the workspace-wide store.
func (s *ViperSettingsStore) Workspace() Settings {
	return s.workspace
}

// Folder layers the folder settings file, when present, over the workspace settings.
func (s *ViperSettingsStore) Folder(folder m.Path) (Settings, error) {
	folderOnly, err := s.folderOnly(folder)
	if err != nil {
		return nil, err
	}

	return layeredSettings{folder: folderOnly, workspace: s.workspace}, nil
}

// layeredSettings reads a key from the folder file and falls back to the
// workspace store, so COLCON_HELPER_* variables reach folder-scoped keys.
type layeredSettings struct {
	folder    *viper.Viper
	workspace *viper.Viper
}

func (l layeredSettings) scope(key string) Settings {
	if l.folder.IsSet(key) {
		return l.folder
	}

	return l.workspace
}

func (l layeredSettings) IsSet(key string) bool {
	return l.folder.IsSet(key) || l.workspace.IsSet(key)
}

func (l layeredSettings) Get(key string) any {
	return l.scope(key).Get(key)
}

func (l layeredSettings) GetString(key string) string {
	return l.scope(key).GetString(key)
}

func (l layeredSettings) GetBool(key string) bool {
	return l.scope(key).GetBool(key)
}

func (l layeredSettings) GetStringMapString(key string) map[string]string {
	return l.scope(key).GetStringMapString(key)
}

// Inspect reads key from each scope separately.
func (s *ViperSettingsStore) Inspect(folder m.Path, key string) (Inspection, error) {
	var inspection Inspection

	if s.workspace.IsSet(key) {
		inspection.WorkspaceValue = s.workspace.Get(key)
	}

	folderOnly, err := s.folderOnly(folder)
	if err != nil {
		return inspection, err
	}

	if folderOnly.IsSet(key) {
		inspection.FolderValue = folderOnly.Get(key)
	}

	return inspection, nil
}

// Update sets key in the folder settings file, creating it when missing.
func (s *ViperSettingsStore) Update(folder m.Path, key string, value any) error {
	folderOnly, err := s.folderOnly(folder)
	if err != nil {
		return err
	}

	folderOnly.Set(key, value)

	path := s.FolderConfigPath(folder)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "create settings directory for %s", path)
	}

	if err := folderOnly.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "write folder settings %s", path)
	}

	return nil
}

// FolderConfigPath returns <folder>/.vscode/colcon.yaml.
func (s *ViperSettingsStore) FolderConfigPath(folder m.Path) string {
	return filepath.Join(string(folder), filepath.FromSlash(FolderSettingsFile))
}

// Watch watches the directories of every existing settings file, so saves
// that replace the file are seen too.
func (s *ViperSettingsStore) Watch(ctx context.Context, folders []m.Path, onChange func(event fsnotify.Event)) error {
	files := make(map[string]bool)

	candidates := []string{s.workspace.ConfigFileUsed()}
	for _, folder := range folders {
		candidates = append(candidates, s.FolderConfigPath(folder))
	}

	for _, path := range candidates {
		if path == "" || !fileExists(path) {
			continue
		}

		if abs, err := filepath.Abs(path); err == nil {
			files[abs] = true
		}
	}

	if len(files) == 0 {
		return errors.New("no settings files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create settings watcher")
	}

	for path := range files {
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			_ = watcher.Close()
			return errors.Wrapf(err, "watch %s", filepath.Dir(path))
		}
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				name, err := filepath.Abs(event.Name)
				if err != nil || !files[name] {
					continue
				}

				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange(event)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

func (s *ViperSettingsStore) folderOnly(folder m.Path) (*viper.Viper, error) {
	v := viper.New()

	path := s.FolderConfigPath(folder)
	if !fileExists(path) {
		return v, nil
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read folder settings %s", path)
	}

	return v, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
