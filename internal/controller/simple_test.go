package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func newSimpleUI() (*controller.SimpleUI, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	return controller.NewSimpleUI(cmd), out, errOut
}

var (
	folder   = m.Folder{Name: "ws", Path: "/home/user/ws"}
	packages = []m.Package{
		{Name: "demo", Path: "/home/user/ws/src/demo", BuildType: "ament_cmake"},
		{Name: "demo_py", Path: "/home/user/ws/src/demo_py", BuildType: "ament_python"},
	}
)

func TestParseFormat(t *testing.T) {
	for _, value := range []string{"table", "json", "yaml"} {
		format, err := controller.ParseFormat(value)
		require.NoError(t, err)
		assert.Equal(t, controller.Format(value), format)
	}

	format, err := controller.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, controller.FormatTable, format)

	_, err = controller.ParseFormat("xml")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSimpleUI_DisplayPackagesTable(t *testing.T) {
	ui, out, _ := newSimpleUI()

	require.NoError(t, ui.DisplayPackages(context.Background(), folder, packages, controller.FormatTable))

	output := out.String()
	assert.Contains(t, output, "ws (/home/user/ws)")
	assert.Contains(t, output, "demo_py")
	assert.Contains(t, output, "ament_python")
	assert.Contains(t, output, "/home/user/ws/src/demo")
	assert.Contains(t, strings.ToUpper(output), "TOTAL 2")
}

func TestSimpleUI_DisplayPackagesJSON(t *testing.T) {
	ui, out, _ := newSimpleUI()

	require.NoError(t, ui.DisplayPackages(context.Background(), folder, packages, controller.FormatJSON))

	var decoded []m.Package
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, packages, decoded)
}

func TestSimpleUI_DisplayPackagesYAML(t *testing.T) {
	ui, out, _ := newSimpleUI()

	require.NoError(t, ui.DisplayPackages(context.Background(), folder, packages, controller.FormatYAML))

	assert.Contains(t, out.String(), "- name: demo\n")
	assert.Contains(t, out.String(), "buildType: ament_python")
}

func TestSimpleUI_DisplayTasks(t *testing.T) {
	ui, out, _ := newSimpleUI()

	tasks := []m.Task{
		{
			Definition: m.TaskDefinition{
				Type:    m.TaskTypeColcon,
				Name:    "build",
				Command: "colcon",
				Args:    []string{"build", "--symlink-install"},
				Group:   m.TaskGroupBuild,
			},
			Scope: folder.Path,
		},
		{
			Definition: m.TaskDefinition{Type: m.TaskTypeColcon, Name: "test-result", Command: "colcon", Args: []string{"test-result"}},
			Scope:      folder.Path,
		},
	}

	require.NoError(t, ui.DisplayTasks(context.Background(), tasks, controller.FormatTable))
	assert.Contains(t, out.String(), "colcon build --symlink-install")
	assert.Contains(t, out.String(), "test-result")

	out.Reset()
	require.NoError(t, ui.DisplayTasks(context.Background(), tasks, controller.FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "build", decoded[0]["definition"].(map[string]any)["name"])
	assert.Equal(t, "build", decoded[0]["definition"].(map[string]any)["group"])
	assert.NotContains(t, decoded[1]["definition"], "group")
}

func TestSimpleUI_DisplayEnvironmentDiff(t *testing.T) {
	ui, out, _ := newSimpleUI()

	require.NoError(t, ui.DisplayEnvironmentDiff(context.Background(), "colcon.env", "A=1\nB=2\n", "A=1\nB=3\n"))
	assert.Contains(t, out.String(), "-B=2")
	assert.Contains(t, out.String(), "+B=3")
	assert.NotContains(t, out.String(), " A=1")

	out.Reset()
	require.NoError(t, ui.DisplayEnvironmentDiff(context.Background(), "colcon.env", "A=1\n", "A=1\n"))
	assert.Equal(t, "colcon.env unchanged\n", out.String())
}

func TestSimpleUI_Notify(t *testing.T) {
	ui, out, errOut := newSimpleUI()

	ui.Notify(m.SeverityError, "colcon: something failed")
	ui.Notify(m.SeverityInfo, "colcon: Environment Refreshing Done")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "colcon: something failed")
	assert.Contains(t, errOut.String(), "Environment Refreshing Done")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, _, _ := newSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.DisplayPackages(ctx, folder, packages, controller.FormatTable), context.Canceled)
	require.ErrorIs(t, ui.DisplayTasks(ctx, nil, controller.FormatTable), context.Canceled)
	require.ErrorIs(t, ui.DisplayEnvironmentDiff(ctx, "", "", ""), context.Canceled)
}
