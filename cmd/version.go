package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build colcon-helper.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("colcon-helper version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)

			if revision := vcsRevision(info); revision != "" {
				cmd.Println("revision\t", revision)
			}
		},
	}
}

// vcsRevision returns the commit the binary was built from, marked when the
// tree was modified.
func vcsRevision(info *debug.BuildInfo) string {
	var revision, modified string

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}

	if revision != "" && modified == "true" {
		revision += " (modified)"
	}

	return revision
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
