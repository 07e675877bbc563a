package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func TestEnvironmentStore_LoadAndInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colcon.env")
	store := domain.NewEnvironmentStore(adapter.NewLocalWorkspaceFSAdapter())

	env, ok, err := store.Load(path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, env)

	writeFile(t, path, "AMENT_PREFIX_PATH=/opt/ros/humble\nROS_DISTRO=humble\n")

	env, ok, err = store.Load(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"AMENT_PREFIX_PATH": "/opt/ros/humble", "ROS_DISTRO": "humble"}, env)

	writeFile(t, path, "ROS_DISTRO=jazzy\n")

	env, _, err = store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "humble", env["ROS_DISTRO"], "cached until invalidated")

	store.Invalidate(path)

	env, _, err = store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ROS_DISTRO": "jazzy"}, env)
}

func TestMergeEnvironment(t *testing.T) {
	merged := domain.MergeEnvironment(
		[]string{"A=1", "B=2", `=C:=C:\work`, "NOVALUE"},
		map[string]string{"B": "3", "C": "4"},
	)

	assert.Equal(t, []string{`=C:=C:\work`, "A=1", "B=3", "C=4"}, merged)
}

func TestEnvironList(t *testing.T) {
	assert.Equal(t, []string{"A=", "Z=last"}, domain.EnvironList(map[string]string{"Z": "last", "A": ""}))
	assert.Empty(t, domain.EnvironList(nil))
}

func TestProcessEnvironment(t *testing.T) {
	assert.Nil(t, domain.ProcessEnvironment(m.Config{}))

	t.Setenv("COLCON_HELPER_BASE", "kept")
	t.Setenv("ROS_DOMAIN_ID", "1")

	env := domain.ProcessEnvironment(m.Config{DefaultEnv: map[string]string{"ROS_DOMAIN_ID": "42"}})

	assert.Contains(t, env, "COLCON_HELPER_BASE=kept")
	assert.Contains(t, env, "ROS_DOMAIN_ID=42")
	assert.NotContains(t, env, "ROS_DOMAIN_ID=1")
}

func TestParseEnvironment(t *testing.T) {
	content := "PS1=\\$ \r\n" +
		"HASH=a #b\n" +
		"ProgramFiles(x86)=C:\\Program Files (x86)\n" +
		"BASH_FUNC_f%%=() {  echo hi\n" +
		"  local x=1\n" +
		"}\n" +
		"\n" +
		"EMPTY=\n"

	assert.Equal(t, map[string]string{
		"PS1":               `\$ `,
		"HASH":              "a #b",
		"ProgramFiles(x86)": `C:\Program Files (x86)`,
		"BASH_FUNC_f%%":     "() {  echo hi",
		"EMPTY":             "",
	}, domain.ParseEnvironment([]byte(content)))
}
