package domain

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// RefreshReport describes one environment refresh.
type RefreshReport struct {
	ID       string
	Folder   m.Folder
	EnvFile  string
	Script   string
	Previous string
	Current  string
	Packages []m.Package
	// PackagesErr is set when the environment was written but the package
	// list could not be refreshed afterwards.
	PackagesErr error
	Duration    time.Duration
}

// Changed reports whether the environment file content differs from before.
func (r RefreshReport) Changed() bool {
	return r.Previous != r.Current
}

// Materializer writes the environment produced by sourcing the configured
// setup scripts into the environment file.
type Materializer interface {
	// Refresh sources the setup scripts of cfg through its shell and dumps the
	// resulting variables to cfg.EnvFile, overwriting it. On success the
	// package registry of the folder is refreshed.
	Refresh(ctx context.Context, cfg m.Config) (RefreshReport, error)
}

type materializer struct {
	runner   adapter.ProcessRunner
	fs       adapter.WorkspaceFSAdapter
	envs     EnvironmentStore
	registry PackageRegistry
	channel  *adapter.OutputChannel

	group singleflight.Group
}

// NewMaterializer constructs a Materializer.
func NewMaterializer(
	runner adapter.ProcessRunner,
	fs adapter.WorkspaceFSAdapter,
	envs EnvironmentStore,
	registry PackageRegistry,
	channel *adapter.OutputChannel,
) Materializer {
	return &materializer{
		runner:   runner,
		fs:       fs,
		envs:     envs,
		registry: registry,
		channel:  channel,
	}
}

func (e *materializer) Refresh(ctx context.Context, cfg m.Config) (RefreshReport, error) {
	value, err, _ := e.group.Do(string(cfg.Folder.Path), func() (any, error) {
		return e.refresh(ctx, cfg)
	})

	report, _ := value.(RefreshReport)

	return report, err
}

func (e *materializer) refresh(ctx context.Context, cfg m.Config) (RefreshReport, error) {
	started := time.Now()

	report := RefreshReport{
		ID:      uuid.NewString(),
		Folder:  cfg.Folder,
		EnvFile: cfg.EnvFile,
	}

	log := e.channel.Logger(cfg.OutputLevel)
	log.Info("Start to refresh environment [" + report.ID + "]")

	if previous, err := e.fs.ReadFile(m.Path(cfg.EnvFile)); err == nil {
		report.Previous = string(previous)
	}

	script := e.sourceScript(cfg)

	dir := filepath.Dir(cfg.EnvFile)
	if err := e.fs.MkdirAll(m.Path(dir)); err != nil {
		log.Error("Exception while retrieving colcon environment: \n" + err.Error())
		return report, errors.Wrapf(err, "create directory %s", dir)
	}

	script += EnvironmentDumpCommand(cfg.Shell.Type, cfg.EnvFile)
	report.Script = script

	command := ShellInvocation(cfg.Shell, script)
	command.Dir = string(cfg.Folder.Path)
	command.Env = ProcessEnvironment(cfg)

	log.Info("Trying to execute: " + script)
	log.Info("Current shell is " + cfg.Shell.Path)

	result, err := e.runner.Run(ctx, command)
	if err != nil {
		log.Error("Exception while retrieving colcon environment: \n" + err.Error())
		return report, errors.Wrap(err, "refresh environment")
	}

	if out := strings.TrimSpace(result.Stdout); out != "" {
		log.Info(out)
	}

	e.envs.Invalidate(cfg.EnvFile)

	if current, err := e.fs.ReadFile(m.Path(cfg.EnvFile)); err == nil {
		report.Current = string(current)
	}

	report.Packages, report.PackagesErr = e.registry.Refresh(ctx, cfg)
	if report.PackagesErr != nil {
		log.Error("Failed to refresh package list: " + report.PackagesErr.Error())
	}

	report.Duration = time.Since(started)

	log.Info("Environment Refreshing Done")
	e.channel.Notify(m.SeverityInfo, "Environment Refreshing Done")

	return report, nil
}

// sourceScript returns the source fragments of the setup scripts of cfg that
// exist, global ones first. Missing scripts are logged and skipped.
func (e *materializer) sourceScript(cfg m.Config) string {
	log := e.channel.Logger(cfg.OutputLevel)

	var b strings.Builder

	source := func(entries []string, label string) {
		for _, entry := range entries {
			if !e.fs.Exists(m.Path(entry)) {
				log.Info("Missing or invalid " + label + " configuration. Expected: " + entry)
				continue
			}

			log.Info("Source " + label + " command: " + entry)
			b.WriteString(SourceFragment(cfg.Shell.Type, entry))
		}
	}

	source(cfg.GlobalSetup, "global")
	source(cfg.WorkspaceSetup, "workspace")

	return b.String()
}
