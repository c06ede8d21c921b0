package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator for interactive decisions. The engine and the
// manual selection flow depend on this interface so tests can script
// answers.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer takes the default;
	// "y" and "yes" (any case) mean yes; anything else means no.
	Confirm(question string, def bool) (bool, error)
	// Ask prompts for one free-form line of input.
	Ask(question string) (string, error)
}

// StdPrompter reads answers from an input stream, normally stdin.
type StdPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdPrompter creates a Prompter over the given streams.
func NewStdPrompter(in io.Reader, out io.Writer) *StdPrompter {
	return &StdPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter.
func (p *StdPrompter) Confirm(question string, def bool) (bool, error) {
	suffix := "[Y/n]"
	if !def {
		suffix = "[y/N]"
	}
	fmt.Fprintf(p.out, "%s %s: ", question, suffix)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask implements Prompter.
func (p *StdPrompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
