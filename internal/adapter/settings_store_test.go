package adapter_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func writeSettings(t *testing.T, folder, content string) {
	t.Helper()

	path := filepath.Join(folder, ".vscode", "colcon.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestViperSettingsStore_FolderLayersOverWorkspace(t *testing.T) {
	folder := t.TempDir()
	writeSettings(t, folder, "colcon:\n  buildArgs: [--symlink-install]\n")

	workspace := viper.New()
	workspace.Set("colcon.buildArgs", []string{"--merge-install"})
	workspace.Set("colcon.outputLevel", "info")

	store := adapter.NewViperSettingsStore(workspace)

	settings, err := store.Folder(m.Path(folder))
	require.NoError(t, err)

	assert.Equal(t, []any{"--symlink-install"}, settings.Get("colcon.buildArgs"))
	assert.Equal(t, "info", settings.GetString("colcon.outputLevel"))
	assert.Equal(t, workspace, store.Workspace())
}

func TestViperSettingsStore_FolderWithoutFile(t *testing.T) {
	workspace := viper.New()
	workspace.Set("colcon.provideTasks", true)

	settings, err := adapter.NewViperSettingsStore(workspace).Folder(m.Path(t.TempDir()))
	require.NoError(t, err)
	assert.True(t, settings.GetBool("colcon.provideTasks"))
}

func TestViperSettingsStore_Inspect(t *testing.T) {
	folder := t.TempDir()
	writeSettings(t, folder, "colcon:\n  env: build/colcon.env\n")

	workspace := viper.New()
	workspace.Set("colcon.provideTasks", false)

	store := adapter.NewViperSettingsStore(workspace)

	inspection, err := store.Inspect(m.Path(folder), "colcon.env")
	require.NoError(t, err)
	assert.Nil(t, inspection.WorkspaceValue)
	assert.Equal(t, "build/colcon.env", inspection.FolderValue)
	assert.True(t, inspection.Defined())

	inspection, err = store.Inspect(m.Path(folder), "colcon.provideTasks")
	require.NoError(t, err)
	assert.Equal(t, false, inspection.WorkspaceValue)
	assert.Nil(t, inspection.FolderValue)
	assert.True(t, inspection.Defined())

	inspection, err = store.Inspect(m.Path(folder), "colcon.workspaceSetup")
	require.NoError(t, err)
	assert.False(t, inspection.Defined())
}

func TestViperSettingsStore_UpdateCreatesAndPreserves(t *testing.T) {
	folder := t.TempDir()
	store := adapter.NewViperSettingsStore(viper.New())

	require.NoError(t, store.Update(m.Path(folder), "colcon.provideTasks", true))
	assert.FileExists(t, store.FolderConfigPath(m.Path(folder)))

	require.NoError(t, store.Update(m.Path(folder), "colcon.workspaceSetup", []string{"/opt/ros/humble/setup.sh"}))

	settings, err := store.Folder(m.Path(folder))
	require.NoError(t, err)
	assert.True(t, settings.GetBool("colcon.provideTasks"))
	assert.Equal(t, []any{"/opt/ros/humble/setup.sh"}, settings.Get("colcon.workspaceSetup"))
}

func TestViperSettingsStore_FolderConfigPath(t *testing.T) {
	store := adapter.NewViperSettingsStore(viper.New())

	assert.Equal(t, filepath.Join("ws", ".vscode", "colcon.yaml"), store.FolderConfigPath("ws"))
}

func TestViperSettingsStore_WatchWithoutFiles(t *testing.T) {
	store := adapter.NewViperSettingsStore(viper.New())

	require.Error(t, store.Watch(t.Context(), []m.Path{m.Path(t.TempDir())}, nil))
}

func envWorkspace() *viper.Viper {
	workspace := viper.New()
	workspace.SetEnvPrefix("COLCON_HELPER")
	workspace.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	workspace.AutomaticEnv()

	return workspace
}

func TestViperSettingsStore_FolderSeesEnvironmentOverrides(t *testing.T) {
	t.Setenv("COLCON_HELPER_COLCON_PROVIDETASKS", "true")
	t.Setenv("COLCON_HELPER_COLCON_ENV", "build/colcon.env")

	store := adapter.NewViperSettingsStore(envWorkspace())

	settings, err := store.Folder(m.Path(t.TempDir()))
	require.NoError(t, err)

	assert.True(t, settings.IsSet("colcon.provideTasks"))
	assert.True(t, settings.GetBool("colcon.provideTasks"))
	assert.Equal(t, "build/colcon.env", settings.GetString("colcon.env"))
	assert.False(t, settings.IsSet("colcon.workspaceSetup"))

	folder := t.TempDir()
	writeSettings(t, folder, "colcon:\n  provideTasks: false\n")

	settings, err = store.Folder(m.Path(folder))
	require.NoError(t, err)

	assert.False(t, settings.GetBool("colcon.provideTasks"), "the folder file wins")
	assert.Equal(t, "build/colcon.env", settings.GetString("colcon.env"))
}

func nextEvent(t *testing.T, events <-chan fsnotify.Event) fsnotify.Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no settings change reported")
		return fsnotify.Event{}
	}
}

func TestViperSettingsStore_WatchReportsWithoutReloading(t *testing.T) {
	dir := t.TempDir()
	workspaceFile := filepath.Join(dir, "colcon-helper.yaml")
	require.NoError(t, os.WriteFile(workspaceFile, []byte("colcon:\n  outputLevel: error\n"), 0o600))

	folder := t.TempDir()
	writeSettings(t, folder, "colcon:\n  provideTasks: true\n")

	workspace := viper.New()
	workspace.SetConfigFile(workspaceFile)
	require.NoError(t, workspace.ReadInConfig())

	events := make(chan fsnotify.Event, 16)
	store := adapter.NewViperSettingsStore(workspace)

	require.NoError(t, store.Watch(t.Context(), []m.Path{m.Path(folder)}, func(event fsnotify.Event) {
		events <- event
	}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(workspaceFile, []byte("colcon:\n  outputLevel: info\n"), 0o600))

	event := nextEvent(t, events)
	assert.Equal(t, workspaceFile, event.Name)
	assert.Equal(t, "error", workspace.GetString("colcon.outputLevel"), "reloading is left to the caller")

	require.NoError(t, workspace.ReadInConfig())
	assert.Equal(t, "info", workspace.GetString("colcon.outputLevel"))

	folderFile := store.FolderConfigPath(m.Path(folder))
	require.NoError(t, os.WriteFile(folderFile, []byte("colcon:\n  provideTasks: false\n"), 0o600))

	for {
		if event := nextEvent(t, events); event.Name == folderFile {
			break
		}
	}
}
