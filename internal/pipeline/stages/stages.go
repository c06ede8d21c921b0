// Package stages defines the fixed stage enumeration for the application
// workflow and the precondition metadata the engine uses to gate execution.
package stages

import "fmt"

// Stage identifies one of the four pipeline phases.
type Stage string

const (
	Discovery       Stage = "discovery"
	Materialization Stage = "materialization"
	Tailoring       Stage = "tailoring"
	Compilation     Stage = "compilation"
)

// Order is the fixed execution order of the pipeline. The engine walks it
// front to back; stages never run out of order.
var Order = []Stage{Discovery, Materialization, Tailoring, Compilation}

// Definition holds the metadata for one stage.
type Definition struct {
	Name     Stage
	Title    string  // human-readable banner title
	Requires []Stage // stages whose artifacts must already be committed
}

// Registry maps every known stage to its definition. Compilation requires
// materialization rather than tailoring so that a run with tailoring
// disabled can still build the untailored documents.
var Registry = map[Stage]Definition{
	Discovery: {
		Name:  Discovery,
		Title: "Job Discovery",
	},
	Materialization: {
		Name:     Materialization,
		Title:    "Folder Materialization",
		Requires: []Stage{Discovery},
	},
	Tailoring: {
		Name:     Tailoring,
		Title:    "Resume Tailoring",
		Requires: []Stage{Materialization},
	},
	Compilation: {
		Name:     Compilation,
		Title:    "Document Compilation",
		Requires: []Stage{Materialization},
	},
}

// Valid reports whether s names a known stage.
func Valid(s Stage) bool {
	_, ok := Registry[s]
	return ok
}

// Parse converts a raw stage name into a Stage.
func Parse(raw string) (Stage, error) {
	s := Stage(raw)
	if !Valid(s) {
		return "", fmt.Errorf("unknown stage %q (valid stages: %v)", raw, Order)
	}
	return s, nil
}

// Index returns the position of s in the execution order, or -1 when s is
// not a known stage.
func Index(s Stage) int {
	for i, stage := range Order {
		if stage == s {
			return i
		}
	}
	return -1
}

// Missing returns the preconditions of s that are absent from the completed
// set, in declaration order.
func Missing(s Stage, completed []Stage) []Stage {
	done := make(map[Stage]bool, len(completed))
	for _, c := range completed {
		done[c] = true
	}
	var missing []Stage
	for _, req := range Registry[s].Requires {
		if !done[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// PreconditionError reports a stage whose required prior stages have not
// committed their artifacts.
type PreconditionError struct {
	Stage   Stage
	Missing []Stage
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("stage %s is missing completed preconditions: %v", e.Stage, e.Missing)
}
