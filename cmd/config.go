package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "colcon-helper"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	configUserFolder = "colcon-helper"

	channelName = "colcon"

	folderFlagName  = "folder"
	fileFlagName    = "file"
	targetFlagName  = "target"
	configFlagName  = "config"
	logFileFlagName = "log-file"
	verboseFlagName = "verbose"
	formatFlagName  = "format"
	diffFlagName    = "diff"
	allFlagName     = "all"
	distroFlagName  = "distro"

	foldersConfigKey = "folders"

	envPrefix = "COLCON_HELPER"

	logFilenameKey   = "log.filename"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".colcon-helper.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)

	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, configUserFolder))
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(foldersConfigKey, []string{})

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadConfig reads the workspace settings file. A missing file is not an error.
func loadConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		if path == "" && os.IsNotExist(errors.UnwrapAll(err)) {
			return nil
		}

		return errors.WithHint(
			errors.Wrap(err, "read settings"),
			"check the YAML syntax of "+viper.ConfigFileUsed(),
		)
	}

	return nil
}

// logFileOptions reads the rotation settings of the output channel log file.
func logFileOptions() adapter.LogFileOptions {
	filename := strings.TrimSpace(viper.GetString(logFilenameKey))
	if filename == "" {
		filename = defaultLogFilename
	}

	return adapter.LogFileOptions{
		Filename:   filename,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}
}

// openLogFile opens the output channel sink. Options are read when the sink is
// first needed, after flags and settings files have been loaded.
func openLogFile() io.Writer {
	return adapter.NewLumberjackOpener(logFileOptions())()
}
