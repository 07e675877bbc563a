package domain

import (
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// TasksFile is the editor task file of a folder, relative to the folder root.
const TasksFile = ".vscode/tasks.json"

// TaskEntry is the tasks.json form of a task.
type TaskEntry struct {
	Type         string         `json:"type"`
	Label        string         `json:"label"`
	Name         string         `json:"name,omitempty"`
	Command      string         `json:"command,omitempty"`
	Args         []string       `json:"args"`
	File         string         `json:"file,omitempty"`
	LaunchArgs   []string       `json:"launchArgs,omitempty"`
	RosPackage   string         `json:"rosPackage,omitempty"`
	RunFileArgs  []string       `json:"runFileArgs,omitempty"`
	Group        string         `json:"group,omitempty"`
	Options      *TaskOptions   `json:"options,omitempty"`
	Presentation m.Presentation `json:"presentation"`
	Problems     []string       `json:"problemMatcher"`
}

// TaskOptions holds the working directory of an exported task.
type TaskOptions struct {
	Cwd string `json:"cwd,omitempty"`
}

// Exporter writes synthesized tasks into the tasks.json of their folder.
type Exporter interface {
	// Export replaces the colcon and ros2launch entries of the tasks file of
	// cfg.Folder with tasks and returns the file written.
	Export(cfg m.Config, tasks []m.Task) (string, error)
}

type exporter struct {
	file    adapter.TasksFileAdapter
	channel *adapter.OutputChannel
}

// NewExporter constructs an Exporter.
func NewExporter(file adapter.TasksFileAdapter, channel *adapter.OutputChannel) Exporter {
	return &exporter{file: file, channel: channel}
}

func (e *exporter) Export(cfg m.Config, tasks []m.Task) (string, error) {
	path := filepath.Join(string(cfg.Folder.Path), filepath.FromSlash(TasksFile))

	entries := make([]any, 0, len(tasks))
	for _, task := range tasks {
		entries = append(entries, NewTaskEntry(task))
	}

	if err := e.file.Merge(path, []string{m.TaskTypeColcon, m.TaskTypeRos2Launch}, entries); err != nil {
		return path, errors.Wrapf(err, "export tasks of %s", cfg.Folder.Path)
	}

	e.channel.Logger(cfg.OutputLevel).Info("Exported tasks to " + path)

	return path, nil
}

// NewTaskEntry converts task to its tasks.json form.
func NewTaskEntry(task m.Task) TaskEntry {
	def := task.Definition

	entry := TaskEntry{
		Type:         def.Type,
		Label:        def.Name,
		Name:         def.Name,
		Command:      def.Command,
		Args:         def.Args,
		Group:        string(task.Group()),
		Presentation: task.Presentation,
		Problems:     []string{},
	}

	if entry.Args == nil {
		entry.Args = []string{}
	}

	if def.Type == m.TaskTypeRos2Launch {
		entry.File = def.File
		entry.LaunchArgs = def.LaunchArgs
		entry.RosPackage = def.RosPackage
		entry.RunFileArgs = def.RunFileArgs
		entry.Command = ""
		entry.Args = []string{}
	}

	if task.Cwd != "" {
		entry.Options = &TaskOptions{Cwd: task.Cwd}
	}

	return entry
}
