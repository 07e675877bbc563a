package domain

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// PlatformFor maps a GOOS value to the platform name used in settings keys.
func PlatformFor(goos string) m.Platform {
	switch goos {
	case "darwin":
		return m.PlatformOSX
	case "windows":
		return m.PlatformWindows
	default:
		return m.PlatformLinux
	}
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() m.Platform {
	return PlatformFor(runtime.GOOS)
}

// DefaultShellPath is the shell used when nothing is configured.
func DefaultShellPath(platform m.Platform) string {
	if platform == m.PlatformWindows {
		return `C:\Windows\System32\cmd.exe`
	}

	return "/usr/bin/bash"
}

// ClassifyShell derives the shell type from its path. Unknown shells are treated as bash.
func ClassifyShell(path string) m.ShellType {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, "powershell.exe"), strings.HasSuffix(lower, "pwsh.exe"), strings.HasSuffix(lower, "pwsh"):
		return m.ShellPowerShell
	case strings.HasSuffix(lower, "sh.exe"), strings.HasSuffix(lower, "bash"):
		return m.ShellBash
	case strings.HasSuffix(lower, "cmd.exe"):
		return m.ShellCmd
	case strings.HasSuffix(lower, "zsh"):
		return m.ShellZsh
	}

	return m.ShellBash
}

// ShellExtension returns the setup-script extension sourced by the shell.
func ShellExtension(shell m.ShellType) string {
	switch shell {
	case m.ShellPowerShell:
		return "ps1"
	case m.ShellCmd:
		return "bat"
	case m.ShellZsh:
		return "zsh"
	default:
		return "sh"
	}
}

// SourceCommand returns the keyword that runs a script in the current shell.
func SourceCommand(shell m.ShellType) string {
	switch shell {
	case m.ShellPowerShell:
		return "."
	case m.ShellCmd:
		return "call"
	default:
		return "source"
	}
}

// CommandDelimiter separates commands on one line.
func CommandDelimiter(shell m.ShellType) string {
	if shell == m.ShellCmd {
		return "&"
	}

	return ";"
}

// ShellInvocation builds the command that runs script through shell.
func ShellInvocation(shell m.Shell, script string) m.Command {
	var args []string

	switch shell.Type {
	case m.ShellCmd:
		args = []string{"/d", "/s", "/c", script}
	case m.ShellPowerShell:
		args = []string{"-NoProfile", "-Command", script}
	default:
		args = []string{"-c", script}
	}

	return m.Command{Name: shell.Path, Args: args}
}

// SourceFragment returns `<source> "<path>" <delim> ` for one setup script.
func SourceFragment(shell m.ShellType, path string) string {
	return fmt.Sprintf(`%s "%s" %s `, SourceCommand(shell), path, CommandDelimiter(shell))
}

// EnvironmentDumpCommand writes every environment variable as KEY=VALUE to target.
// The file is truncated, never appended to.
func EnvironmentDumpCommand(shell m.ShellType, target string) string {
	switch shell {
	case m.ShellCmd:
		return fmt.Sprintf(`set > "%s"`, target)
	case m.ShellPowerShell:
		return fmt.Sprintf(`
$targetPath = '%s'
if (Test-Path $targetPath)
{
  Clear-Content $targetPath
}

$envs = Get-ChildItem env:
Foreach ($entry in $envs)
{
  $str = $entry.Name + '=' + $entry.Value
  Add-Content -Path $targetPath -Value "$str"
}
`, strings.ReplaceAll(target, "'", "''"))
	default:
		return fmt.Sprintf(`env > "%s"`, target)
	}
}

// ReplaceShellExtension rewrites the extension of a setup script path to the
// one sourced by shell.
func ReplaceShellExtension(shell m.ShellType, entry string) string {
	needed := "." + ShellExtension(shell)

	current := filepath.Ext(entry)
	if current == needed {
		return entry
	}

	return strings.TrimSuffix(entry, current) + needed
}
