package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// SimpleUI implements UI on top of the cobra command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Notify prints a popup to stderr.
func (s *SimpleUI) Notify(severity m.Severity, message string) {
	var label string

	switch severity {
	case m.SeverityWarning:
		label = warningStyle.Render("warning")
	case m.SeverityError:
		label = errorStyle.Render("error")
	default:
		label = infoStyle.Render("info")
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "%s: %s\n", label, message)
}

// DisplayPackages prints the packages of a folder.
func (s *SimpleUI) DisplayPackages(ctx context.Context, folder m.Folder, packages []m.Package, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return s.printJSON(packages)
	case FormatYAML:
		return s.printYAML(packages)
	}

	s.Printf("%s (%s)\n%s", folder.Name, folder.Path, renderPackageTable(packages))

	return nil
}

func renderPackageTable(packages []m.Package) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Build Type", "Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, pkg := range packages {
		table.Append([]string{pkg.Label(), pkg.Description(), pkg.Detail()})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(packages)), "", ""})
	table.Render()

	return tableBuffer.String()
}

// DisplayTasks prints task descriptors.
func (s *SimpleUI) DisplayTasks(ctx context.Context, tasks []m.Task, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return s.printJSON(tasks)
	case FormatYAML:
		return s.printYAML(tasks)
	}

	s.Printf("%s", renderTaskTable(tasks))

	return nil
}

func renderTaskTable(tasks []m.Task) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Task", "Type", "Group", "Command", "Folder"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, task := range tasks {
		group := string(task.Group())
		if group == "" {
			group = "-"
		}

		table.Append([]string{
			task.Name(),
			task.Definition.Type,
			group,
			strings.Join(task.CommandLine(), " "),
			string(task.Scope),
		})
	}

	table.Render()

	return tableBuffer.String()
}

// DisplayEnvironmentDiff prints a unified diff between two environment files.
func (s *SimpleUI) DisplayEnvironmentDiff(ctx context.Context, path, previous, current string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if previous == current {
		s.Printf("%s unchanged\n", path)
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: path + " (previous)",
		ToFile:   path,
		Context:  0,
	})
	if err != nil {
		return err
	}

	s.Printf("%s", diff)

	return nil
}

// Printf writes to the command's stdout.
func (s *SimpleUI) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) printJSON(value any) error {
	encoder := json.NewEncoder(s.cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

func (s *SimpleUI) printYAML(value any) error {
	encoder := yaml.NewEncoder(s.cmd.OutOrStdout())
	encoder.SetIndent(2)

	if err := encoder.Encode(value); err != nil {
		return err
	}

	return encoder.Close()
}
