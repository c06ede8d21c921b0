package tailor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rakshit/resume-workflow/internal/workspace"
)

const (
	// AgentResponseFileName stores the raw stream-json output of an agent run.
	AgentResponseFileName = "agent_response.json"

	// DefaultAgentCommand is the CLI agent invoked when none is configured.
	DefaultAgentCommand = "claude"

	// DefaultAgentTimeout bounds a single agent invocation.
	DefaultAgentTimeout = 15 * time.Minute
)

// AgentRunner tailors a folder by handing it to an external CLI agent running
// in headless mode. The agent reads job_details.json and edits the section
// files in place; its streamed output is captured to agent_response.json.
type AgentRunner struct {
	Command string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewAgentRunner builds a runner, filling in defaults for empty fields.
func NewAgentRunner(command string, timeout time.Duration, logger *slog.Logger) *AgentRunner {
	if command == "" {
		command = DefaultAgentCommand
	}
	if timeout <= 0 {
		timeout = DefaultAgentTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentRunner{Command: command, Timeout: timeout, Logger: logger}
}

// Preflight verifies the agent binary is installed before any folder is touched.
func (r *AgentRunner) Preflight() error {
	if _, err := exec.LookPath(r.Command); err != nil {
		return &Error{
			Message: fmt.Sprintf("agent command %q not found in PATH", r.Command),
			Cause:   err,
		}
	}
	return nil
}

// Run invokes the agent with dir as its working directory. Success is the
// agent exiting zero; the section edits themselves are the agent's job.
func (r *AgentRunner) Run(ctx context.Context, dir string, sections []string) error {
	details, err := workspace.ReadJobDetails(dir)
	if err != nil {
		return &Error{Dir: dir, Message: "cannot read job record", Cause: err}
	}

	template, err := getPrompt("tailor_agent")
	if err != nil {
		return &Error{Dir: dir, Message: "cannot load agent prompt", Cause: err}
	}
	prompt := formatPrompt(template, map[string]string{
		"JobTitle":       details.JobTitle,
		"Company":        details.CompanyName,
		"JobDescription": details.JobDescription,
		"Sections":       strings.Join(sections, ", "),
	})

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Command,
		"-p", prompt,
		"--output-format", "stream-json",
		"--verbose",
		"--allowedTools", "Read,Edit,Write",
		"--permission-mode", "acceptEdits",
	)
	cmd.Dir = dir

	out, err := os.Create(filepath.Join(dir, AgentResponseFileName))
	if err != nil {
		return &Error{Dir: dir, Message: "cannot create agent response file", Cause: err}
	}
	defer func() { _ = out.Close() }()

	var stderr strings.Builder
	cmd.Stdout = out
	cmd.Stderr = &stderr

	r.Logger.Debug("running tailoring agent", "command", r.Command, "dir", dir)
	if err := cmd.Run(); err != nil {
		msg := "agent run failed"
		if tail := tailLines(stderr.String(), 5); tail != "" {
			msg = fmt.Sprintf("agent run failed: %s", tail)
		}
		return &Error{Dir: dir, Message: msg, Cause: err}
	}
	return nil
}

// tailLines joins the last n non-empty lines of s for inclusion in an error.
func tailLines(s string, n int) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " | ")
}
