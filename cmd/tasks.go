package cmd

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

var tasksFormatFlag string
var resolveFormatFlag string
var runEnvFileFlag string

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of the workspace",
		Long: `List the colcon tasks of the folder owning --file, or of every folder when no
file is given. Tasks are only provided for folders with colcon.provideTasks
enabled; a ros2 launch task is added when --file is a .launch.py file.`,
		Args: cobra.NoArgs,
		RunE: runListTasks,
	}

	cmd.Flags().StringVar(&tasksFormatFlag, formatFlagName, string(controller.FormatTable), "output format: table, json or yaml")

	return cmd
}

func newTasksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of the workspace",
		Args:  cobra.NoArgs,
		RunE:  runListTasks,
	}

	cmd.Flags().StringVar(&tasksFormatFlag, formatFlagName, string(controller.FormatTable), "output format: table, json or yaml")

	return cmd
}

func runListTasks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := controller.ParseFormat(tasksFormatFlag)
	if err != nil {
		return err
	}

	tasks, provideErr := taskProvider.ProvideTasks(ctx, currentWorkspace())

	if err := ui.DisplayTasks(ctx, tasks, format); err != nil {
		return err
	}

	return provideErr
}

func newTasksResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [definition]",
		Short: "Rebuild a task from its serialized definition",
		Long: `Read a flat JSON task definition, e.g.
  {"type": "colcon", "name": "build", "args": ["build"]}
from the argument or from stdin and print the executable task.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := controller.ParseFormat(resolveFormatFlag)
			if err != nil {
				return err
			}

			record, err := readDefinition(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			task, err := taskProvider.ResolveTask(ctx, currentWorkspace(), m.Path(targetFlag), record)
			if err != nil {
				return err
			}

			return ui.DisplayTasks(ctx, []m.Task{task}, format)
		},
	}

	cmd.Flags().StringVar(&resolveFormatFlag, formatFlagName, string(controller.FormatJSON), "output format: table, json or yaml")

	return cmd
}

func readDefinition(stdin io.Reader, args []string) (map[string]any, error) {
	var raw []byte

	if len(args) > 0 {
		raw = []byte(args[0])
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read task definition")
		}

		raw = data
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "parse task definition"), `pass a JSON object such as {"type": "colcon", "args": ["build"]}`)
	}

	return record, nil
}

func newTasksRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a task by name",
		Long: `Run a provided task by name. With --env-file, the variables of a dotenv file
are layered over the task environment; ${VAR} references in it are expanded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tasks, provideErr := taskProvider.ProvideTasks(ctx, currentWorkspace())

			for _, task := range tasks {
				if task.Name() != args[0] {
					continue
				}

				withEnv, err := overlayEnvFile(task, runEnvFileFlag)
				if err != nil {
					return err
				}

				return runTask(ctx, cmd, withEnv)
			}

			if provideErr != nil {
				return provideErr
			}

			names := make([]string, 0, len(tasks))
			for _, task := range tasks {
				names = append(names, task.Name())
			}

			return errors.WithHint(errors.Newf("task %q not found", args[0]), "available tasks: "+strings.Join(names, ", "))
		},
	}

	cmd.Flags().StringVar(&runEnvFileFlag, "env-file", "", "dotenv file layered over the task environment")

	return cmd
}

// overlayEnvFile layers the variables of a dotenv file over the environment of task.
func overlayEnvFile(task m.Task, path string) (m.Task, error) {
	if path == "" {
		return task, nil
	}

	extra, err := gotenv.Read(path)
	if err != nil {
		return task, errors.Wrapf(err, "read env file %s", path)
	}

	env := make(map[string]string, len(task.Env)+len(extra))
	maps.Copy(env, task.Env)
	maps.Copy(env, extra)
	task.Env = env

	return task, nil
}

func newTasksExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the tasks of a folder into .vscode/tasks.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := targetConfig(ctx, currentWorkspace())
			if err != nil {
				return err
			}

			tasks, err := synthesizer.Synthesize(ctx, cfg)
			if err != nil {
				return err
			}

			if launch, ok := synthesizer.LaunchTask(cfg); ok {
				tasks = append(tasks, launch)
			}

			path, err := exporter.Export(cfg, tasks)
			if err != nil {
				return err
			}

			ui.Printf("%d task(s) written to %s\n", len(tasks), path)

			return nil
		},
	}
}

// runTask runs task in its folder, streaming its output to the command's streams.
func runTask(ctx context.Context, cmd *cobra.Command, task m.Task) error {
	command := m.Command{
		Name: task.Definition.Command,
		Args: task.Definition.Args,
		Dir:  task.Cwd,
	}

	if task.Env != nil {
		command.Env = domain.MergeEnvironment(os.Environ(), task.Env)
	}

	if task.Presentation.Echo {
		ui.Printf("> %s\n", strings.Join(command.Argv(), " "))
	}

	return processRunner.Stream(ctx, command, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// tasksCmd represents the tasks command.
var tasksCmd = newTasksCmd()

func init() {
	tasksCmd.AddCommand(newTasksListCmd())
	tasksCmd.AddCommand(newTasksResolveCmd())
	tasksCmd.AddCommand(newTasksRunCmd())
	tasksCmd.AddCommand(newTasksExportCmd())
	rootCmd.AddCommand(tasksCmd)
}
