// Package console provides the human-facing terminal output and prompts for
// the workflow CLI.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted progress output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// StageBanner announces a stage about to run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) StageBanner(position, total int, title string) {
	fmt.Fprintf(p.out, "\n🚀 Stage %d/%d: %s\n", position, total, title)
}

// StageSkipped reports a stage that consumed its ordinal without running.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) StageSkipped(position, total int, stage stages.Stage, reason string) {
	fmt.Fprintf(p.out, "Stage %d/%d (%s) skipped: %s\n", position, total, stage, reason)
}

// StageCompleted reports a stage whose artifacts have been committed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) StageCompleted(position, total int, stage stages.Stage) {
	fmt.Fprintf(p.out, "✅ Stage %d/%d (%s) completed\n", position, total, stage)
}

// ItemStarted reports a work item about to be processed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) ItemStarted(position, total int, key string) {
	fmt.Fprintf(p.out, "  [%d/%d] %s\n", position, total, key)
}

// ItemSkipped reports a work item that already completed in an earlier run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) ItemSkipped(position, total int, key string) {
	fmt.Fprintf(p.out, "  [%d/%d] %s already completed, skipping\n", position, total, key)
}

// ItemFailed reports a work item failure the run is continuing past.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) ItemFailed(key string, err error) {
	fmt.Fprintf(p.out, "  ⚠️ %s failed: %v\n", key, err)
}

// Warning prints a non-fatal warning.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.out, "⚠️ Warning: %s\n", msg)
}

// Note prints a one-line informational message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Note(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Aborted reports an operator-requested stop after a completed stage.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Aborted(stage stages.Stage) {
	fmt.Fprintf(p.out, "Aborted after %s. Progress is saved; rerun with --resume to continue.\n", stage)
}

// PrintJobList outputs a numbered listing table for manual selection.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobList(jobs []types.JobListing) {
	fmt.Fprintf(p.out, "\nDiscovered %d jobs:\n", len(jobs))
	for i, job := range jobs {
		line := fmt.Sprintf("%d. %s", i+1, job.Title)
		if job.Company != "" {
			line += fmt.Sprintf(" @ %s", job.Company)
		}
		if job.Location != "" {
			line += fmt.Sprintf(" (%s)", job.Location)
		}
		if job.Applicants != nil {
			line += fmt.Sprintf(" [%d applicants]", *job.Applicants)
		}
		fmt.Fprintln(p.out, line)
	}
}

// PrintRunSummary outputs a box summarizing the run recorded in state.
func (p *Printer) PrintRunSummary(st *state.State) {
	if st == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:    %s\n", st.RunID))
	sb.WriteString(fmt.Sprintf("Config: %s\n", st.ConfigName))
	sb.WriteString("\n")

	if len(st.CompletedStages) == 0 {
		sb.WriteString("No stages completed yet.\n")
	}
	for _, stage := range st.CompletedStages {
		line := fmt.Sprintf("✅ %s", stage)
		if total, failed := st.ItemCounts(stage); total > 0 {
			line += fmt.Sprintf(" (%d items, %d failed)", total, failed)
		}
		sb.WriteString(line + "\n")
	}

	failed := allFailedItems(st)
	if len(failed) > 0 {
		sb.WriteString("\nFailed items:\n")
		count := min(len(failed), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", failed[i]))
		}
		if len(failed) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failed)-maxItemsToShow))
		}
	}

	p.printBox("WORKFLOW SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

func allFailedItems(st *state.State) []string {
	var failed []string
	for _, stage := range stages.Order {
		for _, key := range st.FailedItems(stage) {
			failed = append(failed, fmt.Sprintf("%s: %s", stage, key))
		}
	}
	return failed
}
