package pipeline

import (
	"fmt"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
)

// ValidationError reports invalid run options or inputs. It is surfaced
// immediately and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// StageError reports a failed stage, naming the item being processed when the
// stage runs a collection. Resumable means progress up to the failure is
// already persisted and a rerun with --resume continues from there.
type StageError struct {
	Stage     stages.Stage
	Item      string
	Resumable bool
	Cause     error
}

func (e *StageError) Error() string {
	where := string(e.Stage)
	if e.Item != "" {
		where = fmt.Sprintf("%s (item %s)", where, e.Item)
	}
	hint := "rerun required from this stage"
	if e.Resumable {
		hint = "state persisted; rerun with --resume"
	}
	return fmt.Sprintf("stage %s failed: %v (%s)", where, e.Cause, hint)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
