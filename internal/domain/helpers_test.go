package domain_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	"github.com/deitry/vscode-colcon-helper/internal/domain"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

type popup struct {
	severity m.Severity
	message  string
}

// recordingNotifier keeps every popup for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	popups []popup
}

func (n *recordingNotifier) Notify(severity m.Severity, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.popups = append(n.popups, popup{severity: severity, message: message})
}

func (n *recordingNotifier) messages(severity m.Severity) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var messages []string

	for _, p := range n.popups {
		if p.severity == severity {
			messages = append(messages, p.message)
		}
	}

	return messages
}

type testChannel struct {
	channel  *adapter.OutputChannel
	console  *bytes.Buffer
	sink     *bytes.Buffer
	notifier *recordingNotifier
}

func newTestChannel() *testChannel {
	tc := &testChannel{
		console:  &bytes.Buffer{},
		sink:     &bytes.Buffer{},
		notifier: &recordingNotifier{},
	}

	tc.channel = adapter.NewOutputChannel("colcon", func() io.Writer { return tc.sink }, tc.console, tc.notifier)

	return tc
}

// newFolder creates a workspace folder with a .vscode directory.
func newFolder(t *testing.T) m.Folder {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".vscode"), 0o750))

	return domain.NewFolder(dir)
}

// writeFile creates path with content, creating parents as needed.
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// writeFolderSettings writes the folder-scoped YAML settings of folder.
func writeFolderSettings(t *testing.T, folder m.Folder, content string) {
	t.Helper()

	writeFile(t, filepath.Join(string(folder.Path), ".vscode", "colcon.yaml"), strings.TrimLeft(content, "\n"))
}

// newStore returns a settings store whose workspace scope holds values.
func newStore(values map[string]any) *adapter.ViperSettingsStore {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}

	return adapter.NewViperSettingsStore(v)
}

// bashConfig is a minimal snapshot for folder using bash on linux.
func bashConfig(folder m.Folder) m.Config {
	return m.Config{
		Folder:      folder,
		Platform:    m.PlatformLinux,
		Shell:       m.Shell{Path: "/bin/bash", Type: m.ShellBash},
		EnvFile:     filepath.Join(string(folder.Path), ".vscode", "colcon.env"),
		ColconCwd:   string(folder.Path),
		OutputLevel: m.OutputInfo,
		RunCommand:  "ros2",
		RunArgs:     []string{"launch"},
	}
}
