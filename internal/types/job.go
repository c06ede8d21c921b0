// Package types defines the data structures shared across the workflow
// stages: discovered job listings, search artifacts, and work items.
package types

// JobListing is one discovered job posting. Listings are produced by the
// discovery stage and treated as immutable afterwards; folder identity is
// derived from their content at materialization time.
type JobListing struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Link           string   `json:"link"`
	JobID          string   `json:"job_id,omitempty"`
	Applicants     *int     `json:"applicants,omitempty"` // nil when the posting does not expose a count
	PostingDate    string   `json:"posting_date,omitempty"`
	Source         string   `json:"source"`
	ScrapedAt      string   `json:"scraped_at"`
	JobDescription string   `json:"job_description,omitempty"`
	JobType        string   `json:"job_type,omitempty"`
	SeniorityLevel string   `json:"seniority_level,omitempty"`
	SkillsRequired []string `json:"skills_required,omitempty"`
	SalaryRange    string   `json:"salary_range,omitempty"`
}

// SearchMetadata describes the query that produced a batch of listings.
type SearchMetadata struct {
	SearchDate   string `json:"search_date"`
	JobTitle     string `json:"job_title"`
	Location     string `json:"location,omitempty"`
	MaxResults   int    `json:"max_results"`
	TotalResults int    `json:"total_results"`
	SearchMode   string `json:"search_mode,omitempty"`
	TimeFilter   string `json:"time_filter,omitempty"`
}

// SearchResults is the discovery artifact persisted to disk.
type SearchResults struct {
	Metadata SearchMetadata `json:"metadata"`
	Jobs     []JobListing   `json:"jobs"`
}
