package cmd

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	if strings.Contains(output, "version: unknown") {
		assert.Contains(t, output, "version: unknown")
		return
	}

	assert.Contains(t, output, "colcon-helper version")
	assert.Contains(t, output, "go version")
}

func TestVCSRevision(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "0a1b2c3"},
		{Key: "vcs.modified", Value: "true"},
	}}
	assert.Equal(t, "0a1b2c3 (modified)", vcsRevision(info))

	info.Settings[2].Value = "false"
	assert.Equal(t, "0a1b2c3", vcsRevision(info))

	assert.Empty(t, vcsRevision(&debug.BuildInfo{}))
}
