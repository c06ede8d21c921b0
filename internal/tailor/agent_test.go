package tailor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshit/resume-workflow/internal/workspace"
)

// writeWorkFolder creates a folder with a job record the way materialization
// leaves it behind.
func writeWorkFolder(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	details := workspace.JobDetails{
		CompanyName:    "Acme Corp",
		JobTitle:       "Staff Go Engineer",
		JobDescription: "Build distributed systems in Go.",
		Folder:         filepath.Base(dir),
		CreatedAt:      "2025-06-01T12:00:00Z",
	}
	data, err := json.Marshal(details)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspace.DetailsFileName), data, 0644))
	return dir
}

// writeFakeAgent installs an executable script standing in for the CLI agent.
func writeFakeAgent(t *testing.T, body string) string {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping agent test")
	}

	path := filepath.Join(t.TempDir(), "fake-agent")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestNewAgentRunner_Defaults(t *testing.T) {
	r := NewAgentRunner("", 0, nil)

	assert.Equal(t, DefaultAgentCommand, r.Command)
	assert.Equal(t, DefaultAgentTimeout, r.Timeout)
	assert.NotNil(t, r.Logger)
}

func TestAgentRunnerPreflight_MissingBinary(t *testing.T) {
	r := NewAgentRunner("definitely-not-an-agent-xyz", 0, nil)

	err := r.Preflight()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-an-agent-xyz")
	assert.Contains(t, err.Error(), "not found in PATH")
}

func TestAgentRunnerRun_CapturesOutputAndPrompt(t *testing.T) {
	// The fake agent records the -p argument and emits one stream-json line.
	script := writeFakeAgent(t, `printf '%s' "$2" > received_prompt.txt
echo '{"type":"result","subtype":"success"}'
`)
	dir := writeWorkFolder(t)

	r := NewAgentRunner(script, time.Minute, nil)
	err := r.Run(context.Background(), dir, []string{"experience", "skills"})
	require.NoError(t, err)

	response, err := os.ReadFile(filepath.Join(dir, AgentResponseFileName))
	require.NoError(t, err)
	assert.Contains(t, string(response), `"type":"result"`)

	prompt, err := os.ReadFile(filepath.Join(dir, "received_prompt.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(prompt), "Staff Go Engineer")
	assert.Contains(t, string(prompt), "Acme Corp")
	assert.Contains(t, string(prompt), "Build distributed systems in Go.")
	assert.Contains(t, string(prompt), "experience, skills")
	assert.NotContains(t, string(prompt), "{{.", "all placeholders should be filled")
}

func TestAgentRunnerRun_NonZeroExit(t *testing.T) {
	script := writeFakeAgent(t, `echo "model quota exhausted" >&2
exit 3
`)
	dir := writeWorkFolder(t)

	r := NewAgentRunner(script, time.Minute, nil)
	err := r.Run(context.Background(), dir, []string{"experience"})
	require.Error(t, err)

	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, dir, terr.Dir)
	assert.Contains(t, terr.Message, "model quota exhausted")
}

func TestAgentRunnerRun_MissingJobRecord(t *testing.T) {
	script := writeFakeAgent(t, "exit 0\n")

	r := NewAgentRunner(script, time.Minute, nil)
	err := r.Run(context.Background(), t.TempDir(), []string{"experience"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job record")
}

func TestTailLines(t *testing.T) {
	assert.Equal(t, "", tailLines("", 5))
	assert.Equal(t, "a | b", tailLines("a\nb\n", 5))
	assert.Equal(t, "d | e", tailLines("a\nb\nc\nd\ne", 2))
	assert.Equal(t, "x", tailLines("\n\n  x  \n\n", 3))
}
