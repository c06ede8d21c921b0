package types

// ItemStatus is the lifecycle status of a work item within a stage.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusFailed    ItemStatus = "failed"
)

// WorkItem is one materialized unit of work: a folder bound to a single job
// listing. The folder name is a pure function of the listing's content, so
// repeated runs over the same listing converge on the same folder.
type WorkItem struct {
	Category string      `json:"category,omitempty"` // search title that produced the listing
	Folder   string      `json:"folder"`
	Path     string      `json:"path"`
	Status   ItemStatus  `json:"status"`
	Listing  *JobListing `json:"listing,omitempty"` // set until the folder carries its own job record
}
