package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// Package selection arguments of `colcon build`.
const (
	SelectPackages = "--packages-select"
	SelectUpTo     = "--packages-up-to"
)

// colcon verbs.
const (
	buildVerb      = "build"
	testVerb       = "test"
	testResultVerb = "test-result"
)

// Names of the base tasks.
const (
	TaskBuild      = "build"
	TaskTest       = "test"
	TaskTestResult = "test-result"
	TaskClean      = "clean"
	TaskRun        = "run"
)

// Synthesizer builds the tasks of a folder from its configuration snapshot.
type Synthesizer interface {
	// Synthesize returns the tasks of cfg.Folder: a build task for the package
	// owning the active document when there is one, then build, test,
	// test-result, clean and run. It returns no tasks when provisioning is
	// disabled.
	Synthesize(ctx context.Context, cfg m.Config) ([]m.Task, error)

	// BuildPackagesTask returns a build task restricted to names with selector.
	// It fails with ErrPackageSelectionConflict when the build arguments of cfg
	// already select packages.
	BuildPackagesTask(cfg m.Config, selector string, names ...string) (m.Task, error)

	// CurrentPackage returns the package owning the active document of cfg.
	CurrentPackage(ctx context.Context, cfg m.Config) (m.Package, bool, error)

	// LaunchTask returns the ros2 launch task for the active document when it
	// is a launch file inside cfg.Folder.
	LaunchTask(cfg m.Config) (m.Task, bool)
}

type synthesizer struct {
	registry PackageRegistry
	envs     EnvironmentStore
	channel  *adapter.OutputChannel
}

// NewSynthesizer constructs a Synthesizer.
func NewSynthesizer(registry PackageRegistry, envs EnvironmentStore, channel *adapter.OutputChannel) Synthesizer {
	return &synthesizer{
		registry: registry,
		envs:     envs,
		channel:  channel,
	}
}

func (s *synthesizer) Synthesize(ctx context.Context, cfg m.Config) ([]m.Task, error) {
	log := s.channel.Logger(cfg.OutputLevel)

	if !cfg.ProvideTasks {
		log.Info("colcon tasks are not provided for " + string(cfg.Folder.Path) + " due to provideTasks configuration")
		return []m.Task{}, nil
	}

	log.Info("Start to acquire colcon tasks for " + string(cfg.Folder.Path))

	env := s.environment(cfg)

	var tasks []m.Task

	if task, ok := s.currentPackageTask(ctx, cfg, env); ok {
		tasks = append(tasks, task)
	}

	tasks = append(tasks,
		s.colconTask(cfg, env, TaskBuild, m.TaskGroupBuild, buildVerb, cfg.BuildArgs),
		s.colconTask(cfg, env, TaskTest, m.TaskGroupTest, testVerb, cfg.TestArgs),
		s.colconTask(cfg, env, TaskTestResult, m.TaskGroupNone, testResultVerb, cfg.TestResultArgs),
		s.task(cfg, env, TaskClean, m.TaskGroupClean, cfg.CleanCommand, cfg.CleanArgs),
		s.task(cfg, env, TaskRun, m.TaskGroupNone, cfg.RunCommand, s.runArgs(cfg)),
	)

	log.Info("Complete acquire colcon tasks")

	return tasks, nil
}

func (s *synthesizer) BuildPackagesTask(cfg m.Config, selector string, names ...string) (m.Task, error) {
	if len(names) == 0 {
		return m.Task{}, errors.New("no packages selected")
	}

	if SelectsPackages(cfg.BuildArgs) {
		return m.Task{}, errors.WithHint(
			errors.Wrapf(m.ErrPackageSelectionConflict, "cannot add %s", selector),
			"remove "+SelectPackages+" and "+SelectUpTo+" from "+KeyBuildArgs,
		)
	}

	name := fmt.Sprintf("build `%s`", strings.Join(names, " "))
	if selector == SelectUpTo {
		name = fmt.Sprintf("build up to `%s`", strings.Join(names, " "))
	}

	args := append(append([]string{}, cfg.BuildArgs...), selector)
	args = append(args, names...)

	return s.colconTask(cfg, s.environment(cfg), name, m.TaskGroupBuild, buildVerb, args), nil
}

func (s *synthesizer) CurrentPackage(ctx context.Context, cfg m.Config) (m.Package, bool, error) {
	if cfg.ActiveFile == "" || !containsPath(string(cfg.Folder.Path), cfg.ActiveFile) {
		return m.Package{}, false, nil
	}

	packages, err := s.registry.Get(ctx, cfg)
	if err != nil {
		return m.Package{}, false, err
	}

	pkg, ok := OwningPackage(packages, cfg.ActiveFile)

	return pkg, ok, nil
}

func (s *synthesizer) currentPackageTask(ctx context.Context, cfg m.Config, env map[string]string) (m.Task, bool) {
	log := s.channel.Logger(cfg.OutputLevel)

	pkg, ok, err := s.CurrentPackage(ctx, cfg)
	if err != nil {
		log.Error("Cannot find package of " + cfg.ActiveFile + ": " + err.Error())
		return m.Task{}, false
	}

	if !ok {
		return m.Task{}, false
	}

	if SelectsPackages(cfg.BuildArgs) {
		log.Error("Cannot add build task for current package, because there is already `" + SelectPackages + "` option.")
		return m.Task{}, false
	}

	log.Info("Found local package " + pkg.Name)

	args := append(append([]string{}, cfg.BuildArgs...), SelectPackages, pkg.Name)

	return s.colconTask(cfg, env, fmt.Sprintf("build `%s`", pkg.Name), m.TaskGroupBuild, buildVerb, args), true
}

func (s *synthesizer) runArgs(cfg m.Config) []string {
	args := append([]string{}, cfg.RunArgs...)

	if cfg.RunFile != "" {
		args = append(args, cfg.RunFile)
	} else {
		s.channel.Logger(cfg.OutputLevel).Warn("Run file is undefined")
	}

	return append(args, cfg.RunFileArgs...)
}

// environment loads the environment file of cfg. Without one, tasks inherit
// the host environment plus the configured defaults.
func (s *synthesizer) environment(cfg m.Config) map[string]string {
	log := s.channel.Logger(cfg.OutputLevel)

	env, ok, err := s.envs.Load(cfg.EnvFile)
	if err != nil {
		log.Warn(err.Error())
		return cfg.DefaultEnv
	}

	if !ok {
		log.Info("Environment file does not exist. Expected: " + cfg.EnvFile)
		return cfg.DefaultEnv
	}

	log.Info("Parse environment configuration in " + cfg.EnvFile)

	return env
}

func (s *synthesizer) colconTask(cfg m.Config, env map[string]string, name string, group m.TaskGroup, verb string, args []string) m.Task {
	return s.task(cfg, env, name, group, ColconExecutable, append([]string{verb}, args...))
}

func (s *synthesizer) task(cfg m.Config, env map[string]string, name string, group m.TaskGroup, command string, args []string) m.Task {
	s.channel.Logger(cfg.OutputLevel).Info("Making task: " + name + ": " + strings.Join(append([]string{command}, args...), " "))

	return m.Task{
		Definition: m.TaskDefinition{
			Type:    m.TaskTypeColcon,
			Name:    name,
			Command: command,
			Args:    args,
			Group:   group,
		},
		Scope:        cfg.Folder.Path,
		Cwd:          cfg.ColconCwd,
		Env:          env,
		Presentation: m.DedicatedPresentation(),
	}
}

// SelectsPackages reports whether args already restrict the build to a
// package selection.
func SelectsPackages(args []string) bool {
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			for _, selector := range []string{SelectPackages, SelectUpTo} {
				if field == selector || strings.HasPrefix(field, selector+"=") {
					return true
				}
			}
		}
	}

	return false
}

// OwningPackage returns the package whose directory contains file. With nested
// packages the deepest one wins.
func OwningPackage(packages []m.Package, file string) (m.Package, bool) {
	var (
		owner m.Package
		found bool
	)

	for _, pkg := range packages {
		if !containsPath(string(pkg.Path), file) {
			continue
		}

		if !found || len(pkg.Path) > len(owner.Path) {
			owner = pkg
			found = true
		}
	}

	return owner, found
}
