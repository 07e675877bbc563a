package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/deitry/vscode-colcon-helper/internal/controller"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
)

var packagesFormatFlag string
var packagesAllFlag bool

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages of a workspace folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			format, err := controller.ParseFormat(packagesFormatFlag)
			if err != nil {
				return err
			}

			cfgs, err := folderConfigs(ctx, currentWorkspace(), packagesAllFlag)
			if err != nil {
				return err
			}

			var errs []error

			for _, cfg := range cfgs {
				packages, err := registry.Get(ctx, cfg)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				if err := ui.DisplayPackages(ctx, cfg.Folder, packages, format); err != nil {
					return err
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVar(&packagesFormatFlag, formatFlagName, string(controller.FormatTable), "output format: table, json or yaml")
	cmd.Flags().BoolVar(&packagesAllFlag, allFlagName, false, "list every workspace folder")

	return cmd
}

func newPackagesOwnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner",
		Short: "Ask colcon which package owns --file",
		Long: `Find the package owning --file directly from colcon, without the cached
package list: the deepest path of "colcon list --paths-only" containing the file,
named by "colcon list --names-only".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ws := currentWorkspace()
			if ws.ActiveFile == "" {
				return errors.WithHint(errors.New("no file given"), "pass the file with --"+fileFlagName)
			}

			cfg, err := targetConfig(ctx, ws)
			if err != nil {
				return err
			}

			pkg, ok, err := domain.LocatePackage(ctx, discovery, cfg, cfg.ActiveFile)
			if err != nil {
				return err
			}

			if !ok {
				return errors.Newf("no package of %s owns %s", cfg.Folder.Path, cfg.ActiveFile)
			}

			ui.Printf("%s\t%s\n", pkg.Name, pkg.Path)

			return nil
		},
	}
}

// packagesCmd represents the packages command.
var packagesCmd = newPackagesCmd()

func init() {
	packagesCmd.AddCommand(newPackagesOwnerCmd())
	rootCmd.AddCommand(packagesCmd)
}
