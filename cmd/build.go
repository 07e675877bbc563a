package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build packages of a workspace folder",
	}
}

func newBuildCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Build the package owning --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := targetConfig(ctx, currentWorkspace())
			if err != nil {
				return err
			}

			pkg, ok, err := synthesizer.CurrentPackage(ctx, cfg)
			if err != nil {
				return err
			}

			if !ok {
				return errors.WithHint(
					errors.Newf("no package of %s contains %q", cfg.Folder.Path, cfg.ActiveFile),
					"pass the file being edited with --file",
				)
			}

			return buildPackages(ctx, cmd, cfg, domain.SelectPackages, []string{pkg.Name})
		},
	}
}

func newBuildSelectCmd(use, short, selector string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [package...]",
		Short: short,
		Long:  short + ". Without arguments the packages are picked interactively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := targetConfig(ctx, currentWorkspace())
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names, err = pickPackages(ctx, cfg)
				if err != nil {
					return err
				}
			}

			return buildPackages(ctx, cmd, cfg, selector, names)
		},
	}
}

func buildPackages(ctx context.Context, cmd *cobra.Command, cfg m.Config, selector string, names []string) error {
	task, err := synthesizer.BuildPackagesTask(cfg, selector, names...)
	if err != nil {
		return err
	}

	return runTask(ctx, cmd, task)
}

func pickPackages(ctx context.Context, cfg m.Config) ([]string, error) {
	packages, err := registry.Get(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if len(packages) == 0 {
		return nil, errors.Newf("no packages found in %s", cfg.Folder.Path)
	}

	items := make([]controller.PickItem, 0, len(packages))
	for _, pkg := range packages {
		items = append(items, controller.PickItem{
			Label:       pkg.Label(),
			Description: pkg.Description(),
			Detail:      pkg.Detail(),
		})
	}

	indices, err := picker.PickMany(ctx, "Select packages", items)
	if err != nil {
		if errors.Is(err, controller.ErrNotInteractive) {
			return nil, errors.WithHint(err, "pass package names as arguments")
		}

		return nil, err
	}

	names := make([]string, 0, len(indices))
	for _, index := range indices {
		names = append(names, packages[index].Name)
	}

	return names, nil
}

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

func init() {
	buildCmd.AddCommand(newBuildCurrentCmd())
	buildCmd.AddCommand(newBuildSelectCmd("select", "Build the selected packages", domain.SelectPackages))
	buildCmd.AddCommand(newBuildSelectCmd("up-to", "Build the selected packages and their dependencies", domain.SelectUpTo))
	rootCmd.AddCommand(buildCmd)
}
