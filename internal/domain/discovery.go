package domain

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// ColconExecutable is the build orchestrator invoked for listing and tasks.
const ColconExecutable = "colcon"

// Discovery lists the packages of a workspace folder by running `colcon list`.
type Discovery interface {
	// List returns the packages of cfg.Folder in the order colcon reports them.
	List(ctx context.Context, cfg m.Config) ([]m.Package, error)

	// ListPaths returns the package paths reported by `colcon list --paths-only`.
	ListPaths(ctx context.Context, cfg m.Config) ([]m.Path, error)

	// NameAt returns the name of the package rooted at path, empty when there is none.
	NameAt(ctx context.Context, cfg m.Config, path m.Path) (string, error)
}

type discovery struct {
	runner  adapter.ProcessRunner
	envs    EnvironmentStore
	channel *adapter.OutputChannel
}

// NewDiscovery constructs a Discovery running commands through runner.
func NewDiscovery(runner adapter.ProcessRunner, envs EnvironmentStore, channel *adapter.OutputChannel) Discovery {
	return &discovery{
		runner:  runner,
		envs:    envs,
		channel: channel,
	}
}

func (d *discovery) List(ctx context.Context, cfg m.Config) ([]m.Package, error) {
	raw, err := d.colcon(ctx, cfg, "list")
	if err != nil {
		return nil, err
	}

	packages := ParsePackageList(raw, string(cfg.Folder.Path))
	if len(packages) == 0 {
		d.channel.Logger(cfg.OutputLevel).Warn("No packages found in " + string(cfg.Folder.Path) + ". colcon list output:\n" + raw)
	}

	return packages, nil
}

func (d *discovery) ListPaths(ctx context.Context, cfg m.Config) ([]m.Path, error) {
	raw, err := d.colcon(ctx, cfg, "list", "--paths-only")
	if err != nil {
		return nil, err
	}

	var paths []m.Path

	for _, line := range splitOutput(raw) {
		if line == "" {
			continue
		}

		paths = append(paths, m.Path(ResolvePath(line, string(cfg.Folder.Path))))
	}

	return paths, nil
}

func (d *discovery) NameAt(ctx context.Context, cfg m.Config, path m.Path) (string, error) {
	raw, err := d.colcon(ctx, cfg, "list", "--names-only", "--base-path", quoteArg(cfg.Shell.Type, string(path)))
	if err != nil {
		return "", err
	}

	lines := splitOutput(raw)
	if len(lines) == 0 {
		return "", nil
	}

	return strings.TrimSpace(lines[0]), nil
}

// LocatePackage asks colcon for the package owning file: the deepest entry of
// `colcon list --paths-only` containing it, named by `colcon list --names-only`.
// The registry is not consulted. The build type of the result is left empty.
func LocatePackage(ctx context.Context, d Discovery, cfg m.Config, file string) (m.Package, bool, error) {
	paths, err := d.ListPaths(ctx, cfg)
	if err != nil {
		return m.Package{}, false, err
	}

	candidates := make([]m.Package, 0, len(paths))
	for _, path := range paths {
		candidates = append(candidates, m.Package{Path: path})
	}

	owner, ok := OwningPackage(candidates, file)
	if !ok {
		return m.Package{}, false, nil
	}

	name, err := d.NameAt(ctx, cfg, owner.Path)
	if err != nil || name == "" {
		return m.Package{}, false, err
	}

	owner.Name = name

	return owner, true, nil
}

func (d *discovery) colcon(ctx context.Context, cfg m.Config, args ...string) (string, error) {
	script := strings.Join(append([]string{ColconExecutable}, args...), " ")

	command := ShellInvocation(cfg.Shell, script)
	command.Dir = string(cfg.Folder.Path)

	env, err := taskEnvironment(d.envs, cfg)
	if err != nil {
		return "", err
	}

	command.Env = env

	d.channel.Logger(cfg.OutputLevel).Info("Execute: " + script)

	result, err := d.runner.Run(ctx, command)
	if err != nil {
		return "", errors.Wrapf(err, "list packages in %s", cfg.Folder.Path)
	}

	return result.Stdout, nil
}

// ParsePackageList parses the tab separated `colcon list` table. Rows with less
// than three fields are ignored, relative paths are resolved against folder.
func ParsePackageList(raw, folder string) []m.Package {
	packages := []m.Package{}

	for _, line := range splitOutput(raw) {
		fields := strings.Split(strings.TrimSuffix(line, "\r"), "\t")
		if len(fields) < 3 {
			continue
		}

		packages = append(packages, m.Package{
			Name:      fields[0],
			Path:      m.Path(ResolvePath(fields[1], folder)),
			BuildType: fields[2],
		})
	}

	return packages
}

// splitOutput splits command output into lines, dropping the empty entry the
// final newline would produce.
func splitOutput(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}

	return strings.Split(raw, "\n")
}

// taskEnvironment is the environment of commands run for cfg: the materialized
// environment file when there is one, the inherited one otherwise.
func taskEnvironment(envs EnvironmentStore, cfg m.Config) ([]string, error) {
	env, ok, err := envs.Load(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	if ok {
		return EnvironList(env), nil
	}

	return ProcessEnvironment(cfg), nil
}

func quoteArg(shell m.ShellType, arg string) string {
	if !strings.ContainsAny(arg, " \t\"'") {
		return arg
	}

	if shell == m.ShellPowerShell {
		return "'" + strings.ReplaceAll(arg, "'", "''") + "'"
	}

	return `"` + arg + `"`
}
