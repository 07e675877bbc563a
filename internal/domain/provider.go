package domain

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// TaskProvider answers the host's task hooks.
type TaskProvider interface {
	// ProvideTasks lists the tasks of the folder owning the active document, or
	// of every folder when no document is active. A failing folder is reported
	// in the returned error while the tasks of the others are still returned.
	ProvideTasks(ctx context.Context, ws Workspace) ([]m.Task, error)

	// ResolveTask rebuilds an executable task from its serialized definition.
	// Definitions of other types fail with ErrUnsupportedTaskType.
	ResolveTask(ctx context.Context, ws Workspace, scope m.Path, record map[string]any) (m.Task, error)
}

type taskProvider struct {
	resolver     Resolver
	materializer Materializer
	synthesizer  Synthesizer
	envs         EnvironmentStore
	channel      *adapter.OutputChannel
}

// NewTaskProvider constructs a TaskProvider.
func NewTaskProvider(
	resolver Resolver,
	materializer Materializer,
	synthesizer Synthesizer,
	envs EnvironmentStore,
	channel *adapter.OutputChannel,
) TaskProvider {
	return &taskProvider{
		resolver:     resolver,
		materializer: materializer,
		synthesizer:  synthesizer,
		envs:         envs,
		channel:      channel,
	}
}

func (p *taskProvider) ProvideTasks(ctx context.Context, ws Workspace) ([]m.Task, error) {
	folders := ws.Folders
	if active, ok := ws.ActiveFolder(); ok {
		folders = []m.Folder{active}
	}

	tasks := []m.Task{}

	var errs []error

	for _, folder := range folders {
		folderTasks, err := p.folderTasks(ctx, ws, folder)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "provide tasks for %s", folder.Path))
			continue
		}

		tasks = append(tasks, folderTasks...)
	}

	return tasks, errors.Join(errs...)
}

func (p *taskProvider) folderTasks(ctx context.Context, ws Workspace, folder m.Folder) ([]m.Task, error) {
	cfg, err := p.resolver.Resolve(ws, folder.Path)
	if err != nil {
		return nil, err
	}

	p.channel.Logger(cfg.OutputLevel).Info("Start providing tasks")

	if cfg.RefreshOnTasksOpened && cfg.ProvideTasks {
		// refresh failures are already reported, tasks fall back to the previous environment
		_, _ = p.materializer.Refresh(ctx, cfg)
	}

	tasks, err := p.synthesizer.Synthesize(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if launch, ok := p.synthesizer.LaunchTask(cfg); ok {
		tasks = append(tasks, launch)
	}

	return tasks, nil
}

func (p *taskProvider) ResolveTask(ctx context.Context, ws Workspace, scope m.Path, record map[string]any) (m.Task, error) {
	def, err := DecodeTaskDefinition(record)
	if err != nil {
		return m.Task{}, err
	}

	if def.Type != m.TaskTypeColcon && def.Type != m.TaskTypeRos2Launch {
		return m.Task{}, errors.Wrapf(m.ErrUnsupportedTaskType, "%q", def.Type)
	}

	cfg, err := p.resolver.Resolve(ws, scope)
	if err != nil {
		return m.Task{}, err
	}

	task := m.Task{
		Scope:        cfg.Folder.Path,
		Presentation: m.DedicatedPresentation(),
		Env:          p.environment(cfg),
	}

	switch def.Type {
	case m.TaskTypeColcon:
		if def.Command == "" {
			def.Command = ColconExecutable
		}

		if def.Args == nil {
			def.Args = []string{}
		}

		task.Cwd = cfg.ColconCwd
	case m.TaskTypeRos2Launch:
		if def.File == "" {
			return m.Task{}, errors.New("ros2launch task requires a file")
		}

		if def.Name == "" {
			def.Name = def.File
		}

		def.Command = Ros2Executable
		def.Args = launchCommandArgs(def, string(cfg.Folder.Path))
		task.Cwd = string(cfg.Folder.Path)
	}

	task.Definition = def

	return task, nil
}

func (p *taskProvider) environment(cfg m.Config) map[string]string {
	env, ok, err := p.envs.Load(cfg.EnvFile)
	if err != nil || !ok {
		p.channel.Logger(cfg.OutputLevel).Warn("Environment file is not available: " + cfg.EnvFile)
		return cfg.DefaultEnv
	}

	return env
}

// DecodeTaskDefinition decodes a flat serialized task record. A single string
// is accepted wherever a list is expected.
func DecodeTaskDefinition(record map[string]any) (m.TaskDefinition, error) {
	var def m.TaskDefinition

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return def, errors.Wrap(err, "create task decoder")
	}

	if err := decoder.Decode(record); err != nil {
		return def, errors.Wrap(err, "decode task definition")
	}

	return def, nil
}
