package domain

import (
	"path/filepath"
	"strings"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// LaunchFileSuffix marks ros2 python launch files.
const LaunchFileSuffix = ".launch.py"

// Ros2Executable runs launch files.
const Ros2Executable = "ros2"

const debugFlag = "--debug"

func (s *synthesizer) LaunchTask(cfg m.Config) (m.Task, bool) {
	file := cfg.ActiveFile
	if file == "" || !strings.HasSuffix(file, LaunchFileSuffix) {
		return m.Task{}, false
	}

	folder := string(cfg.Folder.Path)
	if !containsPath(folder, file) {
		return m.Task{}, false
	}

	def := m.TaskDefinition{
		Type:        m.TaskTypeRos2Launch,
		Name:        file,
		Command:     Ros2Executable,
		File:        file,
		RunFileArgs: cfg.RunFileArgs,
	}

	if hasDebug(cfg.RunArgs) {
		def.LaunchArgs = []string{debugFlag}
	}

	def.Args = launchCommandArgs(def, folder)

	return m.Task{
		Definition:   def,
		Scope:        cfg.Folder.Path,
		Cwd:          folder,
		Env:          s.environment(cfg),
		Presentation: m.DedicatedPresentation(),
	}, true
}

// LaunchArgs rebuilds the ros2 arguments of a serialized launch definition.
func LaunchArgs(def m.TaskDefinition) []string {
	args := []string{"launch"}
	args = append(args, def.LaunchArgs...)

	if def.RosPackage != "" {
		args = append(args, def.RosPackage)
	}

	args = append(args, def.File)

	return append(args, def.RunFileArgs...)
}

// launchCommandArgs is LaunchArgs with a file inside folder given relative to
// it, as ros2 launch does not accept every absolute path.
func launchCommandArgs(def m.TaskDefinition, folder string) []string {
	if filepath.IsAbs(def.File) && containsPath(folder, def.File) {
		if rel, err := filepath.Rel(folder, def.File); err == nil {
			def.File = "./" + filepath.ToSlash(rel)
		}
	}

	return LaunchArgs(def)
}

func hasDebug(args []string) bool {
	for _, arg := range args {
		if strings.Contains(arg, debugFlag) {
			return true
		}
	}

	return false
}
