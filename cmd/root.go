// Package cmd provides the root command and CLI setup for colcon-helper.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

var settingsStore adapter.SettingsStore
var processRunner adapter.ProcessRunner
var workspaceFS adapter.WorkspaceFSAdapter
var tasksFile adapter.TasksFileAdapter
var outputChannel *adapter.OutputChannel
var resolver domain.Resolver
var envStore domain.EnvironmentStore
var discovery domain.Discovery
var registry domain.PackageRegistry
var materializer domain.Materializer
var synthesizer domain.Synthesizer
var taskProvider domain.TaskProvider
var provisioner domain.Provisioner
var exporter domain.Exporter
var ui controller.UI
var picker controller.Picker

// folderFlags lists the workspace folders given on the command line.
var folderFlags []string

// activeFileFlag plays the role of the document open in the editor.
var activeFileFlag string

// targetFlag selects the folder an operation acts on.
var targetFlag string

var configFileFlag string
var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	picker = controller.NewTUI(os.Stdin, os.Stderr)
	settingsStore = adapter.NewViperSettingsStore(viper.GetViper())
	processRunner = adapter.NewLocalProcessRunner()
	workspaceFS = adapter.NewLocalWorkspaceFSAdapter()
	tasksFile = adapter.NewJSONTasksFileAdapter()
	outputChannel = adapter.NewOutputChannel(channelName, openLogFile, consoleWriter{}, ui)
	resolver = domain.NewResolver(settingsStore, outputChannel)
	envStore = domain.NewEnvironmentStore(workspaceFS)
	discovery = domain.NewDiscovery(processRunner, envStore, outputChannel)
	registry = domain.NewPackageRegistry(discovery)
	materializer = domain.NewMaterializer(processRunner, workspaceFS, envStore, registry, outputChannel)
	synthesizer = domain.NewSynthesizer(registry, envStore, outputChannel)
	taskProvider = domain.NewTaskProvider(resolver, materializer, synthesizer, envStore, outputChannel)
	provisioner = domain.NewProvisioner(settingsStore, outputChannel)
	exporter = domain.NewExporter(tasksFile, outputChannel)
}

const rootLongDescription = `colcon-helper discovers the colcon packages of your workspace folders,
keeps a snapshot of the environment produced by the ROS setup scripts and turns
build, test, clean and launch requests into ready to run tasks.

Workspace folders come from --folder, the "folders" settings key, the folder
owning --file or the current directory, in that order. Settings are read from
colcon-helper.yaml and from <folder>/.vscode/colcon.yaml.

Write colcon.defaultEnvironment as a list of KEY=VALUE entries: names given as
a map are upper-cased.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "colcon-helper",
		Short:         "colcon tasks and environment for ROS workspaces",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfig(configFileFlag); err != nil {
				return err
			}

			if verboseFlag {
				viper.Set(domain.KeyOutputLog, true)
				viper.Set(domain.KeyOutputLevel, "info")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringArrayVarP(&folderFlags, folderFlagName, "w", nil, "workspace folder (can be repeated)")
	flags.StringVarP(&activeFileFlag, fileFlagName, "f", "", "file currently being edited")
	flags.StringVarP(&targetFlag, targetFlagName, "t", "", "workspace folder to act on, by path or name")
	flags.StringVar(&configFileFlag, configFlagName, "", "workspace settings file (default ./colcon-helper.yaml)")
	flags.BoolVar(&verboseFlag, verboseFlagName, false, "log everything to the output channel")

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "output channel log file")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// consoleWriter sends output channel messages to the root command's stderr
// until the log file is opened.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	return rootCmd.ErrOrStderr().Write(p)
}

// reportedError marks errors the user has already been shown.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func reported(err error) error {
	if err == nil {
		return nil
	}

	return reportedError{err}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if code := execute(ctx, rootCmd.ErrOrStderr()); code != 0 {
		stop()
		os.Exit(code)
	}
}

func execute(ctx context.Context, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, m.ErrUserInputCancelled) {
		return 0
	}

	var already reportedError
	if errors.As(err, &already) {
		return 1
	}

	if m.IsConfigurationError(err) {
		ui.Notify(m.SeverityError, err.Error())
	} else {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	if hint := errors.FlattenHints(err); hint != "" {
		_, _ = fmt.Fprintf(stderr, "Hint: %s\n", hint)
	}

	return 1
}
