package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
)

// distroFlag answers the distro question of enable without a picker.
var distroFlag string

func newEnableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable colcon task provisioning for a folder",
		Long: `Turn on colcon.provideTasks in the folder settings. When the folder has no
workspace setup of its own, asks for the ROS distro whose setup script should
be sourced (or takes it from --distro).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := targetConfig(ctx, currentWorkspace())
			if err != nil {
				return err
			}

			result, err := provisioner.Enable(cfg, chooseDistro(ctx, distroFlag))
			if err != nil {
				return err
			}

			if len(result.WorkspaceSetup) > 0 {
				ui.Printf("workspace setup: %v\n", result.WorkspaceSetup)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&distroFlag, distroFlagName, "", "ROS distro code, e.g. humble")

	return cmd
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable colcon task provisioning for a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := targetConfig(cmd.Context(), currentWorkspace())
			if err != nil {
				return err
			}

			_, err = provisioner.Disable(cfg)

			return err
		},
	}
}

// chooseDistro answers with distro when set, otherwise asks through the picker.
func chooseDistro(ctx context.Context, distro string) domain.DistroChooser {
	return func(versions []domain.RosVersion) (domain.RosVersion, error) {
		if distro != "" {
			for _, version := range versions {
				if version.Code == distro {
					return version, nil
				}
			}

			return domain.RosVersion{Label: distro, Code: distro}, nil
		}

		items := make([]controller.PickItem, 0, len(versions))
		for _, version := range versions {
			items = append(items, controller.PickItem{
				Label:       version.Label,
				Description: version.Description(),
				Detail:      version.Detail,
			})
		}

		index, err := picker.PickOne(ctx, "Select ROS version", items)
		if err != nil {
			return domain.RosVersion{}, err
		}

		return versions[index], nil
	}
}

// enableCmd represents the enable command.
var enableCmd = newEnableCmd()

// disableCmd represents the disable command.
var disableCmd = newDisableCmd()

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
