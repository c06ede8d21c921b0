// Package tailor rewrites the resume inside a materialized working folder so
// it targets the folder's job posting. Two backends exist: an external CLI
// agent driven in headless mode, and the Gemini API rewriting section files
// one at a time.
package tailor

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend tailors the resume inside one working folder. Implementations edit
// files under dir and report only success or failure.
type Backend interface {
	Run(ctx context.Context, dir string, sections []string) error
}

// Error represents a tailoring failure for one working folder.
type Error struct {
	Dir     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Dir != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Dir)
	}
	if e.Cause != nil {
		return fmt.Sprintf("tailoring error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("tailoring error: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// sectionPath returns the path of one editable section file inside a working
// folder. Templates keep their editable content under sections/.
func sectionPath(dir, section string) string {
	return filepath.Join(dir, "sections", section+".tex")
}
