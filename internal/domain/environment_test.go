package domain_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	adaptermocks "github.com/deitry/vscode-colcon-helper/internal/adapter/mocks"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

type materializerFixture struct {
	materializer domain.Materializer
	envs         domain.EnvironmentStore
	discovery    *fakeDiscovery
	channel      *testChannel
}

func newMaterializer(runner adapter.ProcessRunner, folder m.Folder) *materializerFixture {
	fs := adapter.NewLocalWorkspaceFSAdapter()
	tc := newTestChannel()
	envs := domain.NewEnvironmentStore(fs)
	disc := &fakeDiscovery{packages: map[m.Path][]m.Package{folder.Path: {{Name: "demo"}}}}

	return &materializerFixture{
		materializer: domain.NewMaterializer(runner, fs, envs, domain.NewPackageRegistry(disc), tc.channel),
		envs:         envs,
		discovery:    disc,
		channel:      tc,
	}
}

// writesEnvFile simulates a shell that dumps content into the env file.
func writesEnvFile(path, content string) func(context.Context, m.Command) (m.CommandResult, error) {
	return func(context.Context, m.Command) (m.CommandResult, error) {
		return m.CommandResult{}, os.WriteFile(path, []byte(content), 0o600)
	}
}

func TestMaterializer_SourcesOnlyExistingScripts(t *testing.T) {
	folder := newFolder(t)
	cfg := bashConfig(folder)

	missing := filepath.Join(string(folder.Path), "missing", "setup.sh")
	existing := filepath.Join(string(folder.Path), "install", "setup.sh")
	writeFile(t, existing, "export A=1\n")

	cfg.GlobalSetup = []string{missing}
	cfg.WorkspaceSetup = []string{existing}

	runner := adaptermocks.NewMockProcessRunner(t)
	fx := newMaterializer(runner, folder)

	want := domain.SourceFragment(m.ShellBash, existing) + domain.EnvironmentDumpCommand(m.ShellBash, cfg.EnvFile)

	runner.EXPECT().
		Run(mock.Anything, mock.MatchedBy(func(c m.Command) bool {
			return c.Name == "/bin/bash" &&
				assert.ObjectsAreEqual([]string{"-c", want}, c.Args) &&
				c.Dir == string(folder.Path)
		})).
		RunAndReturn(writesEnvFile(cfg.EnvFile, "A=1\n")).
		Once()

	report, err := fx.materializer.Refresh(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, want, report.Script)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "A=1\n", report.Current)
	assert.Equal(t, []m.Package{{Name: "demo"}}, report.Packages)
	assert.NoError(t, report.PackagesErr)

	assert.Contains(t, fx.channel.console.String(), "Missing or invalid global configuration. Expected: "+missing)
	assert.Equal(t, []string{"colcon: Environment Refreshing Done"}, fx.channel.notifier.messages(m.SeverityInfo))
	assert.Empty(t, fx.channel.notifier.messages(m.SeverityError))
}

func TestMaterializer_OverwritesEnvironmentFile(t *testing.T) {
	folder := newFolder(t)
	cfg := bashConfig(folder)
	cfg.EnvFile = filepath.Join(string(folder.Path), "build", "env", "colcon.env")

	runner := adaptermocks.NewMockProcessRunner(t)
	fx := newMaterializer(runner, folder)

	runner.EXPECT().Run(mock.Anything, mock.Anything).RunAndReturn(writesEnvFile(cfg.EnvFile, "ROS_DISTRO=foxy\n")).Once()

	first, err := fx.materializer.Refresh(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, first.Previous)
	assert.True(t, first.Changed())

	env, ok, err := fx.envs.Load(cfg.EnvFile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "foxy", env["ROS_DISTRO"])

	runner.EXPECT().Run(mock.Anything, mock.Anything).RunAndReturn(writesEnvFile(cfg.EnvFile, "ROS_DISTRO=humble\n")).Once()

	second, err := fx.materializer.Refresh(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ROS_DISTRO=foxy\n", second.Previous)
	assert.Equal(t, "ROS_DISTRO=humble\n", second.Current)
	assert.NotEqual(t, first.ID, second.ID)

	env, _, err = fx.envs.Load(cfg.EnvFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ROS_DISTRO": "humble"}, env)
}

func TestMaterializer_Failure(t *testing.T) {
	folder := newFolder(t)
	cfg := bashConfig(folder)

	runner := adaptermocks.NewMockProcessRunner(t)
	fx := newMaterializer(runner, folder)

	runner.EXPECT().
		Run(mock.Anything, mock.Anything).
		Return(m.CommandResult{ExitCode: 1}, &m.ProcessExecutionError{
			Command:  []string{"/bin/bash"},
			ExitCode: 1,
			Stderr:   "setup.sh: No such file",
			Err:      errors.New("exit status 1"),
		}).
		Once()

	_, err := fx.materializer.Refresh(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, m.IsProcessExecutionError(err))

	popups := fx.channel.notifier.messages(m.SeverityError)
	require.Len(t, popups, 1)
	assert.Contains(t, popups[0], "Exception while retrieving colcon environment")
	assert.Empty(t, fx.channel.notifier.messages(m.SeverityInfo))
	assert.Equal(t, int32(0), fx.discovery.calls.Load())
}

func TestMaterializer_PackageRefreshFailureIsReported(t *testing.T) {
	folder := newFolder(t)
	cfg := bashConfig(folder)

	runner := adaptermocks.NewMockProcessRunner(t)
	fx := newMaterializer(runner, folder)
	fx.discovery.errs = map[m.Path]error{folder.Path: errors.New("colcon: command not found")}

	runner.EXPECT().Run(mock.Anything, mock.Anything).RunAndReturn(writesEnvFile(cfg.EnvFile, "A=1\n")).Once()

	report, err := fx.materializer.Refresh(context.Background(), cfg)
	require.NoError(t, err)
	require.Error(t, report.PackagesErr)

	assert.Equal(t, []string{"colcon: Environment Refreshing Done"}, fx.channel.notifier.messages(m.SeverityInfo))
	require.Len(t, fx.channel.notifier.messages(m.SeverityError), 1)
}

func TestMaterializer_RealShell(t *testing.T) {
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	folder := newFolder(t)
	cfg := bashConfig(folder)
	cfg.Shell = m.Shell{Path: bash, Type: m.ShellBash}

	setup := filepath.Join(string(folder.Path), "install", "setup.sh")
	writeFile(t, setup, "export COLCON_HELPER_PROBE=42\n")
	cfg.WorkspaceSetup = []string{setup}

	writeFile(t, cfg.EnvFile, "COLCON_HELPER_STALE=1\n")

	fx := newMaterializer(adapter.NewLocalProcessRunner(), folder)

	report, err := fx.materializer.Refresh(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "COLCON_HELPER_STALE=1\n", report.Previous)

	env, ok, err := fx.envs.Load(cfg.EnvFile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", env["COLCON_HELPER_PROBE"])
	assert.NotContains(t, env, "COLCON_HELPER_STALE")
}
