package state

import "fmt"

// CorruptionError reports a state file that cannot be trusted: unreadable,
// unparseable, or referencing stages outside the fixed enumeration. It is
// fatal to the run and always names the offending file.
type CorruptionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *CorruptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt state file %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt state file %s: %s", e.Path, e.Message)
}

func (e *CorruptionError) Unwrap() error {
	return e.Cause
}
