package model

// Command is a request to run an external process.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is the full environment in KEY=VALUE form. Nil inherits the current process env.
	Env []string
}

// Argv returns name and arguments as one slice.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// CommandResult is the captured outcome of a finished process.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Severity is the level of a user-facing notification.
type Severity int

const (
	// SeverityInfo is an informational popup.
	SeverityInfo Severity = iota
	// SeverityWarning is a warning popup.
	SeverityWarning
	// SeverityError is an error popup.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "unknown"
}
