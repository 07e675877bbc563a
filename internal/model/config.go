// Package model defines the data structures shared by the colcon helper.
package model

import "strings"

// Path represents a file system path.
type Path string

// Platform is the host platform as named in settings keys.
type Platform string

const (
	// PlatformLinux covers every non-darwin, non-windows host.
	PlatformLinux Platform = "linux"
	// PlatformOSX is darwin.
	PlatformOSX Platform = "osx"
	// PlatformWindows is win32.
	PlatformWindows Platform = "windows"
)

// ShellType is one of the shells the helper knows how to drive.
type ShellType string

const (
	// ShellCmd is the Windows command processor.
	ShellCmd ShellType = "cmd"
	// ShellPowerShell covers both Windows PowerShell and pwsh.
	ShellPowerShell ShellType = "powershell"
	// ShellBash is the default for POSIX hosts.
	ShellBash ShellType = "bash"
	// ShellZsh is zsh.
	ShellZsh ShellType = "zsh"
)

// ParseShellType returns the shell type for a configured override, if it names one.
func ParseShellType(value string) (ShellType, bool) {
	switch ShellType(strings.ToLower(strings.TrimSpace(value))) {
	case ShellCmd:
		return ShellCmd, true
	case ShellPowerShell:
		return ShellPowerShell, true
	case ShellBash:
		return ShellBash, true
	case ShellZsh:
		return ShellZsh, true
	}

	return "", false
}

// Shell is the resolved shell used to run colcon commands.
type Shell struct {
	Path string
	Type ShellType
}

// OutputLevel is the verbosity threshold of the output channel.
// Lower levels are more verbose.
type OutputLevel int

const (
	// OutputInfo emits everything.
	OutputInfo OutputLevel = iota
	// OutputWarning emits warnings and errors.
	OutputWarning
	// OutputError emits errors only.
	OutputError
	// OutputNone emits nothing to the channel. Error popups are still shown.
	OutputNone
)

// ParseOutputLevel maps a settings value to an OutputLevel. Unknown values mean OutputError.
func ParseOutputLevel(value string) OutputLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return OutputNone
	case "info":
		return OutputInfo
	case "warning", "warn":
		return OutputWarning
	default:
		return OutputError
	}
}

func (l OutputLevel) String() string {
	switch l {
	case OutputInfo:
		return "info"
	case OutputWarning:
		return "warning"
	case OutputError:
		return "error"
	case OutputNone:
		return "none"
	}

	return "unknown"
}

// Folder is a workspace folder: one root directory treated as a project scope.
type Folder struct {
	Name string
	Path Path
}

// Config is the configuration snapshot of one workspace folder.
//
// A Config is built once by the resolver and never mutated afterwards; every
// path field is absolute.
type Config struct {
	Folder   Folder
	Platform Platform
	Shell    Shell

	// EnvFile is the environment snapshot written by a refresh.
	EnvFile        string
	GlobalSetup    []string
	WorkspaceSetup []string
	ColconCwd      string

	ProvideTasks                  bool
	RefreshOnStart                bool
	RefreshOnTasksOpened          bool
	RefreshOnConfigurationChanged bool

	OutputLog   bool
	OutputLevel OutputLevel

	BuildArgs      []string
	TestArgs       []string
	TestResultArgs []string
	CleanCommand   string
	CleanArgs      []string
	RunCommand     string
	RunArgs        []string
	RunFile        string
	RunFileArgs    []string

	// DefaultEnv overrides the inherited environment of spawned commands. Nil when unset.
	DefaultEnv map[string]string

	// RosInstallPath is a template containing ${version}.
	RosInstallPath string

	// ActiveFile is the absolute path of the active document, empty when there is none.
	ActiveFile string
}
