package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// Settings keys. Folder-scoped keys are read from the folder store, the others
// from the workspace store only.
const (
	KeyEnv                           = "colcon.env"
	KeyGlobalSetup                   = "colcon.globalSetup"
	KeyWorkspaceSetup                = "colcon.workspaceSetup"
	KeyColconCwd                     = "colcon.colconCwd"
	KeyProvideTasks                  = "colcon.provideTasks"
	KeyRefreshOnStart                = "colcon.refreshOnStart"
	KeyRefreshOnTasksOpened          = "colcon.refreshOnTasksOpened"
	KeyRefreshOnConfigurationChanged = "colcon.refreshOnConfigurationChanged"
	KeyOutputLog                     = "colcon.outputLog"
	KeyOutputLevel                   = "colcon.outputLevel"
	KeyBuildArgs                     = "colcon.buildArgs"
	KeyTestArgs                      = "colcon.testArgs"
	KeyTestResultArgs                = "colcon.testResultArgs"
	KeyCleanCommand                  = "colcon.cleanCommand"
	KeyCleanArgs                     = "colcon.cleanArgs"
	KeyRunCommand                    = "colcon.runCommand"
	KeyRunArgs                       = "colcon.runArgs"
	KeyRunFile                       = "colcon.runFile"
	KeyRunFileArgs                   = "colcon.runFileArgs"
	KeyDefaultEnvironment            = "colcon.defaultEnvironment"
	KeyRosInstallPath                = "colcon.rosInstallPath"
	KeyShell                         = "colcon.shell"
	KeyShellType                     = "colcon.shell.shellType"
	KeyTerminalShell                 = "terminal.integrated.shell"
)

// Defaults for unset keys.
const (
	DefaultEnvFile        = ".vscode/colcon.env"
	DefaultColconCwd      = WorkspaceFolderPlaceholder
	DefaultOutputLevel    = "error"
	DefaultRunCommand     = "ros2"
	DefaultRosInstallPath = "/opt/ros/${version}/"

	defaultWindowsRosInstallPath = `C:\dev\ros2_${version}\`
)

// Resolver builds configuration snapshots.
type Resolver interface {
	// Resolve builds the snapshot of target, or of the default folder of ws
	// when target is empty. It fails with a *model.ConfigurationError when no
	// folder can be determined or settings cannot be read.
	Resolve(ws Workspace, target m.Path) (m.Config, error)
}

// ResolverOption configures a resolver.
type ResolverOption func(*resolver)

// WithPlatform overrides the detected platform.
func WithPlatform(platform m.Platform) ResolverOption {
	return func(r *resolver) { r.platform = platform }
}

// WithGetenv overrides how the host shell is looked up from the environment.
func WithGetenv(getenv func(string) string) ResolverOption {
	return func(r *resolver) { r.getenv = getenv }
}

type resolver struct {
	settings adapter.SettingsStore
	channel  *adapter.OutputChannel
	platform m.Platform
	getenv   func(string) string
}

// NewResolver constructs a Resolver reading from settings and logging to channel.
func NewResolver(settings adapter.SettingsStore, channel *adapter.OutputChannel, options ...ResolverOption) Resolver {
	r := &resolver{
		settings: settings,
		channel:  channel,
		platform: CurrentPlatform(),
		getenv:   os.Getenv,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func (r *resolver) Resolve(ws Workspace, target m.Path) (m.Config, error) {
	wsConf := r.settings.Workspace()

	outputLog := getBool(wsConf, KeyOutputLog, false)
	if outputLog {
		r.channel.EnsureInitialized()
	}

	level := m.OutputNone
	if outputLog {
		level = m.ParseOutputLevel(getString(wsConf, KeyOutputLevel, DefaultOutputLevel))
	}

	log := r.channel.Logger(level)

	folder, err := r.targetFolder(ws, target)
	if err != nil {
		log.Warn(err.Error())
		return m.Config{}, err
	}

	log.Info("Current workspace dir: " + string(folder.Path))

	resConf, err := r.settings.Folder(folder.Path)
	if err != nil {
		return m.Config{}, &m.ConfigurationError{Reason: "unreadable settings for " + string(folder.Path), Err: err}
	}

	base := string(folder.Path)
	colconCwd := ResolvePath(getString(resConf, KeyColconCwd, DefaultColconCwd), base)

	cfg := m.Config{
		Folder:   folder,
		Platform: r.platform,
		Shell:    r.resolveShell(wsConf),

		EnvFile:        ResolvePath(getString(resConf, KeyEnv, DefaultEnvFile), base),
		GlobalSetup:    resolveAll(stringList(resConf, KeyGlobalSetup), colconCwd),
		WorkspaceSetup: resolveAll(stringList(resConf, KeyWorkspaceSetup), colconCwd),
		ColconCwd:      colconCwd,

		ProvideTasks:                  getBool(resConf, KeyProvideTasks, false),
		RefreshOnStart:                getBool(wsConf, KeyRefreshOnStart, true),
		RefreshOnTasksOpened:          getBool(wsConf, KeyRefreshOnTasksOpened, false),
		RefreshOnConfigurationChanged: getBool(wsConf, KeyRefreshOnConfigurationChanged, false),

		OutputLog:   outputLog,
		OutputLevel: level,

		BuildArgs:      stringList(resConf, KeyBuildArgs),
		TestArgs:       stringList(resConf, KeyTestArgs),
		TestResultArgs: stringList(resConf, KeyTestResultArgs),
		RunCommand:     getString(resConf, KeyRunCommand, DefaultRunCommand),
		RunArgs:        stringListOr(resConf, KeyRunArgs, []string{"launch"}),
		RunFileArgs:    stringList(resConf, KeyRunFileArgs),

		RosInstallPath: getString(resConf, KeyRosInstallPath+"."+string(r.platform), r.defaultRosInstallPath()),
	}

	cleanCommand, cleanArgs := r.defaultClean()
	cfg.CleanCommand = getString(resConf, KeyCleanCommand, cleanCommand)
	cfg.CleanArgs = stringListOr(resConf, KeyCleanArgs, cleanArgs)

	if runFile := getString(resConf, KeyRunFile, ""); runFile != "" {
		cfg.RunFile = ResolvePath(runFile, base)
	}

	envs, mapForm := defaultEnvironment(resConf)
	if len(envs) > 0 {
		cfg.DefaultEnv = envs
	}

	if mapForm {
		log.Warn(KeyDefaultEnvironment + " is a map, its names are upper-cased. Use a list of KEY=VALUE entries to keep names such as http_proxy.")
	}

	if ws.ActiveFile != "" {
		cfg.ActiveFile = filepath.Clean(ws.ActiveFile)
		if abs, err := filepath.Abs(ws.ActiveFile); err == nil {
			cfg.ActiveFile = abs
		}
	}

	log.Info(fmt.Sprintf("Current shell is %s (%s)", cfg.Shell.Path, cfg.Shell.Type))

	return cfg, nil
}

func (r *resolver) targetFolder(ws Workspace, target m.Path) (m.Folder, error) {
	if len(ws.Folders) == 0 {
		return m.Folder{}, &m.ConfigurationError{Reason: "can't find workspace"}
	}

	if target != "" {
		folder, ok := ws.Lookup(string(target))
		if !ok {
			return m.Folder{}, &m.ConfigurationError{Reason: fmt.Sprintf("%s is not a workspace folder", target)}
		}

		return folder, nil
	}

	folder, _ := ws.DefaultFolder()

	return folder, nil
}

func (r *resolver) resolveShell(wsConf adapter.Settings) m.Shell {
	path := getString(wsConf, KeyShell+"."+string(r.platform), "")

	if path == "" {
		path = getString(wsConf, KeyTerminalShell+"."+string(r.platform), "")
	}

	if path == "" {
		if r.platform == m.PlatformWindows {
			path = r.getenv("ComSpec")
		} else {
			path = r.getenv("SHELL")
		}
	}

	if path == "" {
		path = DefaultShellPath(r.platform)
	}

	shellType, ok := m.ParseShellType(getString(wsConf, KeyShellType, ""))
	if !ok {
		shellType = ClassifyShell(path)
	}

	return m.Shell{Path: path, Type: shellType}
}

func (r *resolver) defaultClean() (string, []string) {
	if r.platform == m.PlatformWindows {
		return "powershell.exe", []string{"-NoProfile", "-Command", "Remove-Item -Recurse -Force -ErrorAction SilentlyContinue build, install"}
	}

	return "rm", []string{"-rf", "build", "install"}
}

func (r *resolver) defaultRosInstallPath() string {
	if r.platform == m.PlatformWindows {
		return defaultWindowsRosInstallPath
	}

	return DefaultRosInstallPath
}

func getString(s adapter.Settings, key, def string) string {
	if !s.IsSet(key) {
		return def
	}

	return s.GetString(key)
}

func getBool(s adapter.Settings, key string, def bool) bool {
	if !s.IsSet(key) {
		return def
	}

	return s.GetBool(key)
}

// stringList reads a setting that may hold a single value or a sequence.
func stringList(s adapter.Settings, key string) []string {
	return stringListOr(s, key, []string{})
}

func stringListOr(s adapter.Settings, key string, def []string) []string {
	if !s.IsSet(key) {
		return def
	}

	return toStringList(s.Get(key))
}

func toStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case string:
		if v == "" {
			return []string{}
		}

		return []string{v}
	default:
		return cast.ToStringSlice(v)
	}
}

// defaultEnvironment accepts a KEY=VALUE list, which keeps the case of names,
// or a map. Map keys come back lower-cased from the settings store, so they
// are upper-cased and mapForm is reported.
func defaultEnvironment(s adapter.Settings) (envs map[string]string, mapForm bool) {
	if !s.IsSet(KeyDefaultEnvironment) {
		return nil, false
	}

	envs = make(map[string]string)

	switch v := s.Get(KeyDefaultEnvironment).(type) {
	case []any, []string:
		for _, pair := range cast.ToStringSlice(v) {
			key, value, ok := strings.Cut(pair, "=")
			if ok && key != "" {
				envs[key] = value
			}
		}
	default:
		for key, value := range s.GetStringMapString(KeyDefaultEnvironment) {
			envs[strings.ToUpper(key)] = value
		}

		mapForm = true
	}

	return envs, mapForm
}

func resolveAll(entries []string, base string) []string {
	resolved := make([]string, 0, len(entries))
	for _, entry := range entries {
		resolved = append(resolved, ResolvePath(entry, base))
	}

	return resolved
}
