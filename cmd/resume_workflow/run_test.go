package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile drops a minimal workflow file with one profile whose
// stages are all disabled, so run commands exercise flag and state handling
// without touching the network or any external tool.
func writeConfigFile(t *testing.T, dir string) string {
	t.Helper()
	content := `
defaults:
  workflow:
    confirmations:
      discovery: false
      materialization: false
      tailoring: false
      compilation: false
configs:
  test:
    workflow:
      state_file: ` + filepath.Join(dir, "state.json") + `
    discovery:
      enabled: false
      job_title: Backend Engineer
    materialization:
      enabled: false
    tailoring:
      enabled: false
    compilation:
      enabled: false
`
	path := filepath.Join(dir, "workflow_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommand_UnknownConfig(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "run", "nope", "--config-file", configFile)
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "unknown config")
	assert.Contains(t, string(output), "test")
}

func TestRunCommand_FreshConflictsWithResume(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "run", "test", "--config-file", configFile, "--fresh", "--resume")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "--fresh cannot be combined")
}

func TestRunCommand_ResumeWithoutState(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "run", "test", "--config-file", configFile, "--resume")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "--resume requires an existing state file")
}

func TestRunCommand_AllStagesDisabledSucceeds(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "run", "test", "--config-file", configFile)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "skipped")
	assert.Contains(t, string(output), "WORKFLOW SUMMARY")
}

func TestRunCommand_ResumeFromUnknownStage(t *testing.T) {
	binaryPath := getBinaryPath(t)
	configFile := writeConfigFile(t, t.TempDir())

	cmd := exec.Command(binaryPath, "run", "test", "--config-file", configFile, "--resume-from", "deploy")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "unknown stage")
}
