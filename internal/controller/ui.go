// Package controller provides the terminal presentation of the colcon helper:
// popups, package and task listings, and interactive pickers.
package controller

import (
	"context"

	"github.com/cockroachdb/errors"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// Format selects how listings are printed.
type Format string

// Available Format values.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(value), nil
	case "":
		return FormatTable, nil
	}

	return "", errors.WithHint(errors.Newf("unknown format %q", value), "use table, json or yaml")
}

// PickItem is one entry of a picker.
type PickItem struct {
	Label       string
	Description string
	Detail      string
}

// UI defines how results are shown to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// Notify shows a popup. It satisfies adapter.Notifier.
	Notify(severity m.Severity, message string)
	DisplayPackages(ctx context.Context, folder m.Folder, packages []m.Package, format Format) error
	DisplayTasks(ctx context.Context, tasks []m.Task, format Format) error
	DisplayEnvironmentDiff(ctx context.Context, path, previous, current string) error
	Printf(format string, args ...any)
}

// Picker asks the user to choose among items.
type Picker interface {
	// PickOne returns the index of the chosen item.
	PickOne(ctx context.Context, title string, items []PickItem) (int, error)
	// PickMany returns the indices of the chosen items, in item order.
	PickMany(ctx context.Context, title string, items []PickItem) ([]int, error)
}
