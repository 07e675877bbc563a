package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deitry/vscode-colcon-helper/internal/domain"
)

func TestResolvePath(t *testing.T) {
	base := filepath.FromSlash("/ws")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"placeholder", "${workspaceFolder}/.vscode/colcon.env", filepath.FromSlash("/ws/.vscode/colcon.env")},
		{"relative", ".vscode/colcon.env", filepath.FromSlash("/ws/.vscode/colcon.env")},
		{"absolute", "/opt/ros/humble/setup.bash", filepath.FromSlash("/opt/ros/humble/setup.bash")},
		{"placeholder only", "${workspaceFolder}", base},
		{"empty", "", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ResolvePath(tt.path, base))
		})
	}
}

func TestResolvePath_Idempotent(t *testing.T) {
	base := filepath.FromSlash("/home/user/ws")

	inputs := []string{
		"${workspaceFolder}/install/setup.bash",
		"${workspaceFolder}",
		"install/setup.bash",
		"/opt/ros/foxy/setup.bash",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := domain.ResolvePath(input, base)
			assert.Equal(t, once, domain.ResolvePath(once, base))
		})
	}
}
