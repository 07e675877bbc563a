package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
)

var diffFlag bool
var refreshAllFlag bool

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the environment snapshot or the package list",
	}
}

func newRefreshEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Source the setup scripts and write the environment file",
		Long: `Source the configured global and workspace setup scripts through the
configured shell and dump the resulting environment to the environment file
(colcon.env, default .vscode/colcon.env). The package list is refreshed
afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfgs, err := folderConfigs(ctx, currentWorkspace(), refreshAllFlag)
			if err != nil {
				return err
			}

			var errs []error

			for _, cfg := range cfgs {
				report, err := materializer.Refresh(ctx, cfg)
				if err != nil {
					// already shown as an error popup
					errs = append(errs, reported(err))
					continue
				}

				if diffFlag {
					if err := ui.DisplayEnvironmentDiff(ctx, report.EnvFile, report.Previous, report.Current); err != nil {
						return err
					}
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&diffFlag, diffFlagName, false, "show how the environment file changed")
	cmd.Flags().BoolVar(&refreshAllFlag, allFlagName, false, "refresh every workspace folder")

	return cmd
}

func newRefreshPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Rediscover packages with colcon list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfgs, err := folderConfigs(ctx, currentWorkspace(), refreshAllFlag)
			if err != nil {
				return err
			}

			refreshErr := registry.RefreshAll(ctx, cfgs)

			for _, cfg := range cfgs {
				packages, ok := registry.Cached(cfg.Folder.Path)
				if !ok {
					continue
				}

				if err := ui.DisplayPackages(ctx, cfg.Folder, packages, controller.FormatTable); err != nil {
					return err
				}
			}

			return refreshErr
		},
	}

	cmd.Flags().BoolVar(&refreshAllFlag, allFlagName, false, "refresh every workspace folder")

	return cmd
}

// refreshCmd represents the refresh command.
var refreshCmd = newRefreshCmd()

func init() {
	refreshCmd.AddCommand(newRefreshEnvCmd())
	refreshCmd.AddCommand(newRefreshPackagesCmd())
	rootCmd.AddCommand(refreshCmd)
}
