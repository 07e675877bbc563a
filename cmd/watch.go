package cmd

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the environment of the workspace up to date",
		Long: `Refresh the environment of every folder on start (colcon.refreshOnStart) and
again whenever a settings file changes (colcon.refreshOnConfigurationChanged).
Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws := currentWorkspace()

			cfgs, err := folderConfigs(ctx, ws, true)
			if err != nil {
				return err
			}

			for _, cfg := range cfgs {
				if cfg.RefreshOnStart && cfg.ProvideTasks {
					outputChannel.Logger(cfg.OutputLevel).Info("Refreshing environment on start")
					// failures are shown as popups, keep watching
					_, _ = materializer.Refresh(ctx, cfg)
				}
			}

			return watchSettings(ctx, ws)
		},
	}
}

func watchSettings(ctx context.Context, ws domain.Workspace) error {
	changes := make(chan fsnotify.Event, 1)

	folders := make([]m.Path, 0, len(ws.Folders))
	for _, folder := range ws.Folders {
		folders = append(folders, folder.Path)
	}

	err := settingsStore.Watch(ctx, folders, func(event fsnotify.Event) {
		select {
		case changes <- event:
		default:
			// a refresh is already pending
		}
	})
	if err != nil {
		return err
	}

	ui.Printf("watching settings of %d folder(s)\n", len(folders))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-changes:
			onSettingsChanged(ctx, ws, event)
		}
	}
}

// onSettingsChanged runs on the command goroutine, the only one touching the
// settings stores.
func onSettingsChanged(ctx context.Context, ws domain.Workspace, event fsnotify.Event) {
	if err := loadConfig(configFileFlag); err != nil {
		ui.Notify(m.SeverityError, err.Error())
		return
	}

	for _, folder := range ws.Folders {
		cfg, err := resolver.Resolve(ws, folder.Path)
		if err != nil {
			ui.Notify(m.SeverityError, err.Error())
			continue
		}

		log := outputChannel.Logger(cfg.OutputLevel)
		log.Info("colcon configuration changed: " + event.Name)

		if cfg.RefreshOnConfigurationChanged && cfg.ProvideTasks {
			_, _ = materializer.Refresh(ctx, cfg)
		}
	}
}

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func init() {
	rootCmd.AddCommand(watchCmd)
}
