package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigsCommand_ListsProfiles(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "configs", "--config-file", configFile)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "test")
}

func TestConfigsCommand_MissingFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "configs", "--config-file", "does_not_exist.yaml")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "does_not_exist.yaml")
}

func TestStatusCommand_NoStateFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "status", "test", "--config-file", configFile)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "starts fresh")
}

func TestSearchCommand_RequiresJobTitle(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "search")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "job-title")
}
