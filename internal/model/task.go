package model

// Task type tags used in serialized definitions.
const (
	TaskTypeColcon     = "colcon"
	TaskTypeRos2Launch = "ros2launch"
)

// TaskGroup classifies a task for host UI grouping.
type TaskGroup string

const (
	// TaskGroupNone marks tasks without a group.
	TaskGroupNone TaskGroup = ""
	// TaskGroupBuild groups build tasks.
	TaskGroupBuild TaskGroup = "build"
	// TaskGroupTest groups test tasks.
	TaskGroupTest TaskGroup = "test"
	// TaskGroupClean groups clean tasks.
	TaskGroupClean TaskGroup = "clean"
)

// TaskDefinition is the flat, serializable part of a task. A resolver must be
// able to rebuild an executable task from it alone.
type TaskDefinition struct {
	Type    string    `json:"type" yaml:"type" mapstructure:"type"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Command string    `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`
	Args    []string  `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	Group   TaskGroup `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`

	// Launch-file fields, used by ros2launch definitions.
	File        string   `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	LaunchArgs  []string `json:"launchArgs,omitempty" yaml:"launchArgs,omitempty" mapstructure:"launchArgs"`
	RosPackage  string   `json:"rosPackage,omitempty" yaml:"rosPackage,omitempty" mapstructure:"rosPackage"`
	RunFileArgs []string `json:"runFileArgs,omitempty" yaml:"runFileArgs,omitempty" mapstructure:"runFileArgs"`
}

// Presentation controls how the host shows a running task.
type Presentation struct {
	Reveal           string `json:"reveal" yaml:"reveal"`
	Panel            string `json:"panel" yaml:"panel"`
	Clear            bool   `json:"clear" yaml:"clear"`
	Echo             bool   `json:"echo" yaml:"echo"`
	Focus            bool   `json:"focus" yaml:"focus"`
	ShowReuseMessage bool   `json:"showReuseMessage" yaml:"showReuseMessage"`
}

// DedicatedPresentation is the single policy every synthesized task carries.
func DedicatedPresentation() Presentation {
	return Presentation{
		Reveal:           "always",
		Panel:            "dedicated",
		Clear:            true,
		Echo:             true,
		Focus:            true,
		ShowReuseMessage: true,
	}
}

// Task is an invocable external command plus presentation metadata.
type Task struct {
	Definition   TaskDefinition    `json:"definition" yaml:"definition"`
	Scope        Path              `json:"scope" yaml:"scope"`
	Cwd          string            `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	Env          map[string]string `json:"-" yaml:"-"`
	Presentation Presentation      `json:"presentation" yaml:"presentation"`
}

// Name returns the task's display name.
func (t Task) Name() string {
	return t.Definition.Name
}

// Group returns the host UI group of the task.
func (t Task) Group() TaskGroup {
	return t.Definition.Group
}

// CommandLine returns executable and arguments as one slice.
func (t Task) CommandLine() []string {
	return append([]string{t.Definition.Command}, t.Definition.Args...)
}
