// Package build compiles the document inside a materialized working folder
// with a LaTeX toolchain and relocates the intermediate files it leaves
// behind into a shared build directory.
package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultCompiler is invoked when the config names no compiler.
	DefaultCompiler = "pdflatex"

	// DefaultPasses resolves cross references; one pass leaves them stale.
	DefaultPasses = 2

	// DefaultCompileTimeout bounds all passes of one folder together.
	DefaultCompileTimeout = 2 * time.Minute

	// logTailLines is how much compiler output errors and results carry.
	logTailLines = 20
)

// intermediateExts are the files the compiler drops next to the document.
var intermediateExts = []string{
	".aux", ".log", ".out", ".toc", ".lof", ".lot",
	".fls", ".fdb_latexmk", ".synctex.gz",
}

// Options configures one compilation.
type Options struct {
	Compiler string
	Passes   int
	BuildDir string
	Timeout  time.Duration
}

// Result reports a successful compilation.
type Result struct {
	PDFPath string
	LogTail string
}

// Error represents a compilation failure for one working folder.
type Error struct {
	Dir       string
	Message   string
	LogOutput string
	Cause     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Dir != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Dir)
	}
	if e.Cause != nil {
		return fmt.Sprintf("compilation error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("compilation error: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Compile runs the configured compiler over the main .tex file in dir and
// requires the PDF to exist afterwards. The compiler exiting nonzero is
// tolerated as long as the PDF appears; LaTeX reports recoverable trouble
// through its exit code and the log. Intermediates are moved into
// opts.BuildDir under the folder's name so parallel folders never collide.
func Compile(ctx context.Context, dir string, opts Options) (*Result, error) {
	if opts.Compiler == "" {
		opts.Compiler = DefaultCompiler
	}
	if opts.Passes <= 0 {
		opts.Passes = DefaultPasses
	}
	if opts.BuildDir == "" {
		opts.BuildDir = "build"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCompileTimeout
	}

	if _, err := exec.LookPath(opts.Compiler); err != nil {
		return nil, &Error{
			Dir:     dir,
			Message: fmt.Sprintf("compiler %q not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", opts.Compiler),
			Cause:   err,
		}
	}

	texName, err := findMainTex(dir)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(texName, ".tex")

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var lastOutput string
	var lastErr error
	for pass := 0; pass < opts.Passes; pass++ {
		cmd := exec.CommandContext(ctx, opts.Compiler, "-interaction=nonstopmode", texName)
		cmd.Dir = dir

		var output strings.Builder
		cmd.Stdout = &output
		cmd.Stderr = &output

		if runErr := cmd.Run(); runErr != nil {
			lastErr = runErr
		}
		lastOutput = output.String()
	}

	pdfPath := filepath.Join(dir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &Error{
			Dir:       dir,
			Message:   "compilation failed: PDF was not generated",
			LogOutput: logTail(lastOutput, logTailLines),
			Cause:     lastErr,
		}
	}

	if err := relocateIntermediates(dir, base, opts.BuildDir); err != nil {
		return nil, err
	}

	return &Result{
		PDFPath: pdfPath,
		LogTail: logTail(lastOutput, logTailLines),
	}, nil
}

// findMainTex picks the document entry point: resume.tex, then main.tex,
// then a single top-level .tex file. Anything else is ambiguous.
func findMainTex(dir string) (string, error) {
	for _, name := range []string{"resume.tex", "main.tex"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tex"))
	if err != nil {
		return "", &Error{Dir: dir, Message: "cannot scan for .tex files", Cause: err}
	}

	switch len(matches) {
	case 0:
		return "", &Error{Dir: dir, Message: "no .tex file found"}
	case 1:
		return filepath.Base(matches[0]), nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m)
		}
		sort.Strings(names)
		return "", &Error{
			Dir:     dir,
			Message: fmt.Sprintf("multiple .tex files found (%s); expected resume.tex or main.tex", strings.Join(names, ", ")),
		}
	}
}

// relocateIntermediates moves the compiler's side files out of the working
// folder into buildDir, renamed after the folder so a shared build directory
// stays collision free. Missing files are fine; the compiler does not emit
// every extension for every document.
func relocateIntermediates(dir, base, buildDir string) error {
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return &Error{Dir: dir, Message: fmt.Sprintf("cannot create build directory %s", buildDir), Cause: err}
	}

	folder := filepath.Base(dir)
	for _, ext := range intermediateExts {
		src := filepath.Join(dir, base+ext)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(buildDir, folder+ext)
		if err := os.Rename(src, dst); err != nil {
			return &Error{Dir: dir, Message: fmt.Sprintf("cannot relocate %s", base+ext), Cause: err}
		}
	}
	return nil
}

// logTail returns the last n lines of compiler output.
func logTail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
