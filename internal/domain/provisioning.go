package domain

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// RosVersionPlaceholder is substituted with the distro code in the install path.
const RosVersionPlaceholder = "${version}"

// RosVersion is one entry of the distro picker. An empty Code means "configure manually".
type RosVersion struct {
	Label  string
	Code   string
	Detail string
	// Global is set when the global setup already sources this distro.
	Global bool
}

// Description returns "global" for distros found in the global setup.
func (v RosVersion) Description() string {
	if v.Global {
		return "global"
	}

	return ""
}

// DistroChooser asks the user for a ROS distro. It returns
// model.ErrUserInputCancelled when the user dismisses the question.
type DistroChooser func(versions []RosVersion) (RosVersion, error)

// EnableResult reports what Enable changed.
type EnableResult struct {
	AlreadyEnabled bool
	// Distro is the selected distro code, empty when none was asked for.
	Distro         string
	WorkspaceSetup []string
	// ConfigureManually is set when the user chose to edit SettingsFile themselves.
	ConfigureManually bool
	SettingsFile      string
}

// Provisioner toggles task provisioning of a folder.
type Provisioner interface {
	// Enable turns provisioning on. When the folder has no workspace setup of
	// its own, the user picks a ROS distro whose setup script is configured.
	Enable(cfg m.Config, choose DistroChooser) (EnableResult, error)

	// Disable turns provisioning off. It reports whether it was already off.
	Disable(cfg m.Config) (bool, error)

	// ListRosVersions returns the known distros followed by the manual entry.
	ListRosVersions(cfg m.Config) []RosVersion
}

type provisioner struct {
	settings adapter.SettingsStore
	channel  *adapter.OutputChannel
}

// NewProvisioner constructs a Provisioner writing to settings.
func NewProvisioner(settings adapter.SettingsStore, channel *adapter.OutputChannel) Provisioner {
	return &provisioner{
		settings: settings,
		channel:  channel,
	}
}

func (p *provisioner) Enable(cfg m.Config, choose DistroChooser) (EnableResult, error) {
	log := p.channel.Logger(cfg.OutputLevel)
	folder := cfg.Folder.Path

	result := EnableResult{
		AlreadyEnabled: cfg.ProvideTasks,
		SettingsFile:   p.settings.FolderConfigPath(folder),
	}

	if err := p.settings.Update(folder, KeyProvideTasks, true); err != nil {
		return result, errors.Wrap(err, "enable tasks")
	}

	setup, err := p.settings.Inspect(folder, KeyWorkspaceSetup)
	if err != nil {
		return result, err
	}

	if setup.FolderValue == nil {
		versions := p.ListRosVersions(cfg)

		selected, err := choose(versions)
		if err != nil {
			return result, err
		}

		if selected.Code == "" {
			result.ConfigureManually = true
			p.channel.Notify(m.SeverityInfo, "Configure "+KeyWorkspaceSetup+" in "+result.SettingsFile)

			return result, nil
		}

		result.Distro = selected.Code
		result.WorkspaceSetup = ResolveShellExtension(cfg.Shell.Type,
			append([]string{ResolveRosPath(cfg.RosInstallPath, selected.Code)}, cfg.WorkspaceSetup...))

		if err := p.updateIfNotExist(folder, KeyWorkspaceSetup, result.WorkspaceSetup); err != nil {
			return result, err
		}

		for _, version := range versions {
			if version.Global && version.Code != selected.Code {
				log.Warn("Selected ROS version differs from that listed in global setup. Please check your configuration.")
				p.channel.Notify(m.SeverityWarning, "Selected ROS version differs from that listed in global setup. Please check your configuration.")

				break
			}
		}
	}

	msg := "Tasks detection enabled"
	if result.AlreadyEnabled {
		msg = "Tasks detection already enabled"
	}

	log.Info(msg)
	p.channel.Notify(m.SeverityInfo, msg)

	return result, nil
}

func (p *provisioner) Disable(cfg m.Config) (bool, error) {
	if err := p.settings.Update(cfg.Folder.Path, KeyProvideTasks, false); err != nil {
		return false, errors.Wrap(err, "disable tasks")
	}

	msg := "Tasks detection disabled"
	if !cfg.ProvideTasks {
		msg = "Tasks detection already disabled"
	}

	p.channel.Logger(cfg.OutputLevel).Info(msg)
	p.channel.Notify(m.SeverityInfo, msg)

	return !cfg.ProvideTasks, nil
}

func (p *provisioner) ListRosVersions(cfg m.Config) []RosVersion {
	versions := []RosVersion{
		{Label: "Dashing Diademata", Code: "dashing"},
		{Label: "Eloquent Elusor", Code: "eloquent"},
		{Label: "Foxy Fitzroy", Code: "foxy"},
		{Label: "Humble Hawksbill", Code: "humble"},
		{Label: "Jazzy Jalisco", Code: "jazzy"},
		{Label: "Configure ...", Detail: "edit " + p.settings.FolderConfigPath(cfg.Folder.Path)},
	}

	for i := range versions {
		if versions[i].Code == "" {
			continue
		}

		for _, entry := range cfg.GlobalSetup {
			if strings.Contains(entry, versions[i].Code) {
				versions[i].Global = true
			}
		}
	}

	return versions
}

// updateIfNotExist writes key only when no scope defines it yet.
func (p *provisioner) updateIfNotExist(folder m.Path, key string, value any) error {
	inspection, err := p.settings.Inspect(folder, key)
	if err != nil {
		return err
	}

	if inspection.Defined() {
		return nil
	}

	return p.settings.Update(folder, key, value)
}

// ResolveRosPath returns the setup script of distro under the install path template.
func ResolveRosPath(installPath, distro string) string {
	return strings.ReplaceAll(installPath, RosVersionPlaceholder, distro) + "setup.sh"
}

// ResolveShellExtension rewrites the extension of every setup script to the one
// sourced by shell.
func ResolveShellExtension(shell m.ShellType, entries []string) []string {
	resolved := make([]string, 0, len(entries))
	for _, entry := range entries {
		resolved = append(resolved, ReplaceShellExtension(shell, entry))
	}

	return resolved
}
