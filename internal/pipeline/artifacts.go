package pipeline

import (
	"fmt"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/types"
)

// folderRecord is one entry of materialization's "folders" artifact. The
// encoding uses only JSON-native shapes so a record read back from a state
// file is indistinguishable from one committed in the same process.
type folderRecord struct {
	Folder  string
	Path    string
	Title   string
	Company string
}

func encodeFolders(records []folderRecord) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any{
			"folder":  r.Folder,
			"path":    r.Path,
			"title":   r.Title,
			"company": r.Company,
		})
	}
	return out
}

func decodeFolders(v any) ([]folderRecord, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("folders artifact has unexpected shape %T", v)
	}
	records := make([]folderRecord, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("folders artifact entry has unexpected shape %T", entry)
		}
		records = append(records, folderRecord{
			Folder:  stringAt(m, "folder"),
			Path:    stringAt(m, "path"),
			Title:   stringAt(m, "title"),
			Company: stringAt(m, "company"),
		})
	}
	return records, nil
}

// folderWorkItems rebuilds the work items of the stages that operate on the
// materialized folders.
func folderWorkItems(req Request) ([]types.WorkItem, error) {
	arts := req.State.StageArtifacts(stages.Materialization)
	if arts == nil {
		return nil, fmt.Errorf("materialization committed no artifacts")
	}
	records, err := decodeFolders(arts["folders"])
	if err != nil {
		return nil, err
	}

	items := make([]types.WorkItem, 0, len(records))
	for _, r := range records {
		items = append(items, types.WorkItem{
			Category: r.Title,
			Folder:   r.Folder,
			Path:     r.Path,
			Status:   types.ItemStatusPending,
		})
	}
	return items, nil
}

// intsFromArtifact decodes an int slice that may have round-tripped through
// JSON, where numbers come back as float64.
func intsFromArtifact(v any) ([]int, bool) {
	switch vals := v.(type) {
	case []int:
		return vals, true
	case []any:
		out := make([]int, 0, len(vals))
		for _, raw := range vals {
			switch n := raw.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
